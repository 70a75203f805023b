package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"giftregistry/internal/pkg/httpclient"
	"giftregistry/internal/service/registry/domain/port"
)

func newTestClient() *httpclient.Client {
	return httpclient.NewClient(noop.NewTracerProvider().Tracer("test"), 5*time.Second)
}

func TestCommitRelayHTTPAdapter_Write(t *testing.T) {
	var got commitRequest
	var secret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		secret = r.Header.Get(RelaySecretHeader)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewCommitRelayHTTPAdapter(newTestClient(), srv.URL, "s3cret", "data/itens.json")
	require.NoError(t, a.Write(context.Background(), []byte("[\n  {\"id\": 1}\n]")))

	assert.Equal(t, "s3cret", secret)
	assert.Equal(t, "data/itens.json", got.Path)
	assert.Equal(t, "[\n  {\"id\": 1}\n]", got.Content)
}

func TestCommitRelayHTTPAdapter_WriteFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	a := NewCommitRelayHTTPAdapter(newTestClient(), srv.URL, "", "itens.json")
	assert.Error(t, a.Write(context.Background(), []byte(`[]`)))

	srv.Close()
	assert.Error(t, a.Write(context.Background(), []byte(`[]`)), "unreachable relay")
}

func TestCommitRelayHTTPAdapter_IsWriteOnly(t *testing.T) {
	a := NewCommitRelayHTTPAdapter(newTestClient(), "http://127.0.0.1:1", "", "itens.json")
	_, err := a.Read(context.Background())
	assert.True(t, errors.Is(err, port.ErrUnsupported))
}
