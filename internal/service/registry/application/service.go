// internal/service/registry/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"giftregistry/internal/pkg/logger"
	"giftregistry/internal/pkg/metrics"
	"giftregistry/internal/service/registry/domain"
	"giftregistry/internal/service/registry/domain/port"
	"giftregistry/internal/tracing"
)

// RegistryApplicationService orchestrates the registry use cases. It holds
// no item state: every call reads the list, applies one transition and
// writes the list back.
type RegistryApplicationService struct {
	repo   domain.ItemRepository
	relay  port.ReservationRelay // nil when no webhook is configured
	events port.ReservationEventPublisher
	tracer trace.Tracer
	now    func() time.Time
}

// NewRegistryApplicationService wires the service. relay may be nil; events
// may be nil and then defaults to a no-op publisher.
func NewRegistryApplicationService(repo domain.ItemRepository, relay port.ReservationRelay, events port.ReservationEventPublisher, tracer trace.Tracer) *RegistryApplicationService {
	if events == nil {
		events = port.NoopEventPublisher{}
	}
	return &RegistryApplicationService{
		repo:   repo,
		relay:  relay,
		events: events,
		tracer: tracer,
		now:    time.Now,
	}
}

// ListAvailable returns the items that can still be reserved.
func (s *RegistryApplicationService) ListAvailable(ctx context.Context) ([]domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListAvailable")
	defer span.End()

	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, err
	}
	available := domain.Available(items)
	span.SetAttributes(attribute.Int("items.available", len(available)))
	return available, nil
}

// Reserve is the guest flow: the webhook, when configured, must confirm the
// request before the item list is even read.
func (s *RegistryApplicationService) Reserve(ctx context.Context, req *ReserveRequest) (err error) {
	ctx, span := s.tracer.Start(ctx, "app.Reserve")
	defer span.End()
	defer func() { s.observe(span, domain.SourceGuest, err) }()

	if err := req.Validate(); err != nil {
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	span.SetAttributes(attribute.String("item.id", req.ID.String()))

	// 1. gate on the webhook
	if s.relay != nil {
		verdict, err := s.relay.Forward(ctx, req.Payload)
		metrics.RelayVerdicts.WithLabelValues(verdict.Source.String(), boolLabel(verdict.OK)).Inc()
		span.SetAttributes(
			attribute.String("relay.verdict_source", verdict.Source.String()),
			attribute.Bool("relay.ok", verdict.OK),
		)
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("reservation webhook failed")
			return errors.Wrap(domain.ErrRelayRejected, err.Error())
		}
		if !verdict.OK {
			logger.Ctx(ctx).Warn().
				Int("status", verdict.StatusCode).
				Str("verdict_source", verdict.Source.String()).
				Msg("reservation webhook did not confirm")
			return errors.Wrapf(domain.ErrRelayRejected, "status %d via %s", verdict.StatusCode, verdict.Source)
		}
		span.AddEvent("webhook confirmed reservation")
	}

	// 2. commit the transition
	if err := s.commit(ctx, req.ID); err != nil {
		return err
	}

	// 3. announce it
	s.publish(ctx, &domain.ReservationCommitted{
		ItemID:    req.ID,
		Source:    domain.SourceGuest,
		GuestName: req.NomeConvidado,
	})
	return nil
}

// Mark reserves an item directly, bypassing the webhook.
func (s *RegistryApplicationService) Mark(ctx context.Context, req *MarkRequest) (err error) {
	ctx, span := s.tracer.Start(ctx, "app.Mark")
	defer span.End()
	defer func() { s.observe(span, domain.SourceDirect, err) }()

	if err := req.Validate(); err != nil {
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	span.SetAttributes(attribute.String("item.id", req.ID.String()))

	if err := s.commit(ctx, req.ID); err != nil {
		return err
	}
	s.publish(ctx, &domain.ReservationCommitted{ItemID: req.ID, Source: domain.SourceDirect})
	return nil
}

// commit reads the list, applies the Available -> Reserved transition and
// writes the list back. Domain rejections never reach the writer.
func (s *RegistryApplicationService) commit(ctx context.Context, id domain.ItemID) error {
	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		return err
	}
	updated, err := domain.Reserve(items, id)
	if err != nil {
		return err
	}
	if err := s.repo.WriteAll(ctx, updated); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item reserved")
	return nil
}

// publish is best effort: the reservation is already durable, so a broker
// failure is only logged.
func (s *RegistryApplicationService) publish(ctx context.Context, event *domain.ReservationCommitted) {
	event.EventID = uuid.New().String()
	event.TraceID = tracing.GetTraceIDFromContext(ctx)
	event.At = s.now().UTC()

	if err := s.events.PublishReservationCommitted(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("item_id", event.ItemID.String()).Msg("WARN: failed to publish reservation event")
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func (s *RegistryApplicationService) observe(span trace.Span, source domain.ReservationSource, err error) {
	result := ResultOf(err)
	metrics.Reservations.WithLabelValues(string(source), result).Inc()
	span.SetAttributes(attribute.String("reservation.result", result))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	}
}

// ResultOf classifies a use-case error into a stable label.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrRelayRejected):
		return "relay_rejected"
	case errors.Is(err, domain.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyReserved):
		return "already_reserved"
	case errors.Is(err, domain.ErrRead):
		return "read_error"
	case errors.Is(err, domain.ErrWrite):
		return "write_error"
	default:
		return "error"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
