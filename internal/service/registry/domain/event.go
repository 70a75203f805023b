// internal/service/registry/domain/event.go
package domain

import "time"

// ReservationSource tells which flow committed a reservation.
type ReservationSource string

const (
	SourceGuest  ReservationSource = "guest"  // POST /api/reservar, gated by the webhook
	SourceDirect ReservationSource = "direct" // POST /api/marcar
)

// ReservationCommitted is published once an item has been durably marked as
// reserved.
type ReservationCommitted struct {
	EventID   string            `json:"eventId"`
	TraceID   string            `json:"traceId,omitempty"`
	ItemID    ItemID            `json:"itemId"`
	Source    ReservationSource `json:"source"`
	GuestName string            `json:"guestName,omitempty"`
	At        time.Time         `json:"at"`
}
