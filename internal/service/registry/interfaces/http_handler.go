package interfaces

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"giftregistry/internal/pkg/httpclient"
	"giftregistry/internal/pkg/logger"
	"giftregistry/internal/service/registry/application"
	"giftregistry/internal/service/registry/domain"
	"giftregistry/internal/tracing"
)

const (
	serviceName = "registry-service"

	maxRequestBody = 64 << 10
)

// Error codes returned in {"success":false,"error":...}.
const (
	codeReadError       = "read_error"
	codeMissingFields   = "missing_fields"
	codeMissingID       = "missing_id"
	codeWebhookFailed   = "webhook_failed"
	codeItemNotFound    = "item_not_found"
	codeAlreadyReserved = "already_reserved"
	codeServerError     = "server_error"
)

// RegistryHandler exposes the registry use cases over HTTP.
type RegistryHandler struct {
	service   *application.RegistryApplicationService
	staticDir string
}

// NewRegistryHandler creates the handler. staticDir, when set, is served
// on / (the registry front-end).
func NewRegistryHandler(service *application.RegistryApplicationService, staticDir string) *RegistryHandler {
	return &RegistryHandler{service: service, staticDir: staticDir}
}

// RegisterRoutes registers every route on mux.
func (h *RegistryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /api/itens", h.withRequestContext(h.handleListItems))
	mux.Handle("POST /api/reservar", h.withRequestContext(h.handleReserve))
	mux.Handle("POST /api/marcar", h.withRequestContext(h.handleMark))

	if h.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(h.staticDir)))
	}
}

// withRequestContext extracts the inbound trace, assigns a request id and
// stores a logger carrying both in the request context.
func (h *RegistryHandler) withRequestContext(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := otel.Tracer(serviceName).Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()

		requestID := r.Header.Get(httpclient.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(httpclient.RequestIDHeader, requestID)

		ctx = httpclient.ContextWithRequestID(ctx, requestID)
		ctx = logger.WithFields(ctx, map[string]string{
			"trace_id":   tracing.GetTraceIDFromContext(ctx),
			"request_id": requestID,
			"route":      r.URL.Path,
		})
		next(w, r.WithContext(ctx))
	})
}

func (h *RegistryHandler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAvailable(r.Context())
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("failed to list items")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": codeReadError})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *RegistryHandler) handleReserve(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("unreadable reservation body")
		writeFailure(w, http.StatusBadRequest, codeMissingFields)
		return
	}

	var req application.ReserveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("malformed reservation body")
		writeFailure(w, http.StatusBadRequest, codeMissingFields)
		return
	}
	req.Payload = body

	err = h.service.Reserve(r.Context(), &req)
	h.respond(w, r, err, codeMissingFields)
}

func (h *RegistryHandler) handleMark(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("unreadable mark body")
		writeFailure(w, http.StatusBadRequest, codeMissingID)
		return
	}

	var req application.MarkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("malformed mark body")
		writeFailure(w, http.StatusBadRequest, codeMissingID)
		return
	}

	err = h.service.Mark(r.Context(), &req)
	h.respond(w, r, err, codeMissingID)
}

// respond maps a use-case outcome to the HTTP contract. Internal details are
// logged, never sent to the client.
func (h *RegistryHandler) respond(w http.ResponseWriter, r *http.Request, err error, validationCode string) {
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	var statusCode int
	var code string
	switch {
	case errors.Is(err, domain.ErrValidation):
		statusCode, code = http.StatusBadRequest, validationCode
	case errors.Is(err, domain.ErrRelayRejected):
		statusCode, code = http.StatusBadGateway, codeWebhookFailed
	case errors.Is(err, domain.ErrItemNotFound):
		statusCode, code = http.StatusNotFound, codeItemNotFound
	case errors.Is(err, domain.ErrAlreadyReserved):
		statusCode, code = http.StatusBadRequest, codeAlreadyReserved
	default:
		statusCode, code = http.StatusInternalServerError, codeServerError
		logger.Ctx(r.Context()).Error().Err(err).Msg("reservation failed")
	}
	writeFailure(w, statusCode, code)
}

// readBody reads the whole body; an empty body is treated as {}.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	return body, nil
}

func writeFailure(w http.ResponseWriter, statusCode int, code string) {
	writeJSON(w, statusCode, map[string]interface{}{"success": false, "error": code})
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
