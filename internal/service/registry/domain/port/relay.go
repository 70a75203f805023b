package port

import "context"

// VerdictSource says how a relay verdict was reached.
type VerdictSource int

const (
	// VerdictFromIndicator: the body was JSON; its "success" member decided.
	VerdictFromIndicator VerdictSource = iota + 1
	// VerdictFromStatus: no usable body, the HTTP status decided.
	VerdictFromStatus
	// VerdictTransportFailure: no response was received at all.
	VerdictTransportFailure
)

func (s VerdictSource) String() string {
	switch s {
	case VerdictFromIndicator:
		return "indicator"
	case VerdictFromStatus:
		return "status"
	case VerdictTransportFailure:
		return "transport"
	default:
		return "unknown"
	}
}

// RelayVerdict is the outcome of forwarding a reservation to the webhook.
type RelayVerdict struct {
	Source     VerdictSource
	OK         bool
	StatusCode int
}

// ReservationRelay is the outbound port for the reservation webhook. Its
// approval gates the state transition.
type ReservationRelay interface {
	// Forward submits the guest's request payload as received. A transport
	// failure is returned as an error together with a not-ok verdict.
	Forward(ctx context.Context, payload []byte) (RelayVerdict, error)
}
