package port

import (
	"context"

	"giftregistry/internal/service/registry/domain"
)

// ReservationEventPublisher announces committed reservations.
type ReservationEventPublisher interface {
	PublishReservationCommitted(ctx context.Context, event *domain.ReservationCommitted) error
}

// NoopEventPublisher drops every event; used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishReservationCommitted(context.Context, *domain.ReservationCommitted) error {
	return nil
}
