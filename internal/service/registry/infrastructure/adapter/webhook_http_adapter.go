package adapter

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"giftregistry/internal/pkg/httpclient"
	"giftregistry/internal/service/registry/domain"
	"giftregistry/internal/service/registry/domain/port"
)

// WebhookHTTPAdapter implements port.ReservationRelay over HTTP.
type WebhookHTTPAdapter struct {
	client *httpclient.Client
	url    string
}

// NewWebhookHTTPAdapter creates the relay for url.
func NewWebhookHTTPAdapter(client *httpclient.Client, url string) *WebhookHTTPAdapter {
	return &WebhookHTTPAdapter{client: client, url: url}
}

func (a *WebhookHTTPAdapter) Forward(ctx context.Context, payload []byte) (port.RelayVerdict, error) {
	resp, err := a.client.PostJSON(ctx, a.url, payload, nil)
	if err != nil {
		return port.RelayVerdict{Source: port.VerdictTransportFailure}, errors.Wrap(err, "reservation webhook unreachable")
	}
	return EvaluateRelayResponse(resp.StatusCode, resp.Body), nil
}

// EvaluateRelayResponse decides whether the webhook accepted a reservation.
// Any JSON body other than null is the webhook's answer: its "success" member
// decides, and a body without one (an object lacking the key, an array, a
// string) is a rejection. Only an empty, null or non-JSON body falls back to
// the HTTP status.
func EvaluateRelayResponse(statusCode int, body []byte) port.RelayVerdict {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && json.Valid(body) && !bytes.Equal(body, []byte("null")) {
		var success json.RawMessage
		if body[0] == '{' {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(body, &obj); err == nil {
				success = obj["success"]
			}
		}
		return port.RelayVerdict{Source: port.VerdictFromIndicator, OK: domain.Truthy(success), StatusCode: statusCode}
	}
	return port.RelayVerdict{
		Source:     port.VerdictFromStatus,
		OK:         statusCode >= 200 && statusCode < 300,
		StatusCode: statusCode,
	}
}
