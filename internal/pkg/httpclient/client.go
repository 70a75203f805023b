// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// maxResponseBody caps how much of a downstream answer is buffered.
	maxResponseBody = 1 << 20

	// RequestIDHeader carries the id of the inbound request that caused an
	// outbound call, so downstream logs can be correlated.
	RequestIDHeader = "X-Request-ID"
)

type requestIDKey struct{}

// ContextWithRequestID stores the inbound request id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client is a traced HTTP client shared by every outbound adapter.
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
}

// Response is a fully buffered downstream answer.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient creates a client. timeout bounds a whole exchange; zero leaves
// it to the request context.
func NewClient(tracer trace.Tracer, timeout time.Duration) *Client {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
	}
}

// PostJSON sends body as application/json and buffers the answer. Only a
// transport failure is an error; any HTTP status is returned to the caller.
func (c *Client) PostJSON(ctx context.Context, targetURL string, body []byte, header http.Header) (*Response, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse url %q", targetURL)
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, parsedURL.String(), bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "build request")
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, id)
	}

	span.SetAttributes(
		attribute.String("http.url", redactedURL(parsedURL)),
		attribute.String("http.method", http.MethodPost),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrapf(err, "post %s", redactedURL(parsedURL))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "read response body")
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	out := &Response{StatusCode: resp.StatusCode, Status: resp.Status, Header: resp.Header, Body: data}
	if !out.OK() {
		span.SetStatus(codes.Error, resp.Status)
	}
	return out, nil
}

// redactedURL drops query and credentials, which may hold webhook secrets.
func redactedURL(u *url.URL) string {
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	return clean.String()
}
