// internal/service/registry/infrastructure/item_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"giftregistry/internal/pkg/logger"
	"giftregistry/internal/pkg/metrics"
	"giftregistry/internal/service/registry/domain"
	"giftregistry/internal/service/registry/domain/port"
)

// FallbackItemRepository implements domain.ItemRepository over an ordered
// chain of storage backends. Reads and writes walk the chain and stop at the
// first tier that succeeds; failures of earlier tiers are logged and
// swallowed, only the last tier's failure reaches the caller.
type FallbackItemRepository struct {
	backends []port.StorageBackend
	tracer   trace.Tracer
}

// NewFallbackItemRepository builds the chain in priority order. The last
// backend is the terminal tier and should be the local file.
func NewFallbackItemRepository(tracer trace.Tracer, backends ...port.StorageBackend) *FallbackItemRepository {
	return &FallbackItemRepository{backends: backends, tracer: tracer}
}

// Backends returns the tier names in priority order.
func (r *FallbackItemRepository) Backends() []string {
	names := make([]string, len(r.backends))
	for i, b := range r.backends {
		names[i] = b.Name()
	}
	return names
}

func (r *FallbackItemRepository) ReadAll(ctx context.Context) ([]domain.Item, error) {
	ctx, span := r.tracer.Start(ctx, "repository.ReadAll")
	defer span.End()

	var lastErr error
	lastBackend := "none"
	for _, backend := range r.backends {
		data, err := backend.Read(ctx)
		if errors.Is(err, port.ErrUnsupported) {
			metrics.BackendAttempts.WithLabelValues(backend.Name(), "read", "skipped").Inc()
			continue
		}
		if err == nil {
			var items []domain.Item
			items, err = domain.DecodeItems(data)
			if err == nil {
				metrics.BackendAttempts.WithLabelValues(backend.Name(), "read", "success").Inc()
				span.SetAttributes(
					attribute.String("storage.backend", backend.Name()),
					attribute.Int("items.count", len(items)),
				)
				return items, nil
			}
		}

		metrics.BackendAttempts.WithLabelValues(backend.Name(), "read", "failure").Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("backend", backend.Name()).Msg("item list read failed, falling back")
		span.AddEvent("backend read failed", trace.WithAttributes(attribute.String("storage.backend", backend.Name())))
		lastErr, lastBackend = err, backend.Name()
	}

	if lastErr == nil {
		lastErr = errors.New("no readable backend configured")
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "all backends failed to read")
	return nil, errors.Wrapf(domain.ErrRead, "%s: %v", lastBackend, lastErr)
}

func (r *FallbackItemRepository) WriteAll(ctx context.Context, items []domain.Item) error {
	ctx, span := r.tracer.Start(ctx, "repository.WriteAll")
	defer span.End()

	content, err := domain.EncodeItems(items)
	if err != nil {
		span.RecordError(err)
		return errors.Wrapf(domain.ErrWrite, "%v", err)
	}

	var lastErr error
	lastBackend := "none"
	for i, backend := range r.backends {
		err := backend.Write(ctx, content)
		if err == nil {
			metrics.BackendAttempts.WithLabelValues(backend.Name(), "write", "success").Inc()
			span.SetAttributes(attribute.String("storage.backend", backend.Name()))
			if i > 0 {
				logger.Ctx(ctx).Info().Str("backend", backend.Name()).Msg("item list persisted by fallback tier")
			}
			return nil
		}
		if errors.Is(err, port.ErrUnsupported) {
			metrics.BackendAttempts.WithLabelValues(backend.Name(), "write", "skipped").Inc()
			continue
		}

		metrics.BackendAttempts.WithLabelValues(backend.Name(), "write", "failure").Inc()
		span.AddEvent("backend write failed", trace.WithAttributes(attribute.String("storage.backend", backend.Name())))
		lastErr, lastBackend = err, backend.Name()
		if i < len(r.backends)-1 {
			logger.Ctx(ctx).Warn().Err(err).Str("backend", backend.Name()).Msg("item list write failed, falling back")
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no writable backend configured")
	}
	logger.Ctx(ctx).Error().Err(lastErr).Str("backend", lastBackend).Msg("item list write failed on the last tier")
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "all backends failed to write")
	return errors.Wrapf(domain.ErrWrite, "%s: %v", lastBackend, lastErr)
}
