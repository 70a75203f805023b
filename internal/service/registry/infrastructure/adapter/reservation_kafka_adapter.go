package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"giftregistry/internal/pkg/mq"
	"giftregistry/internal/service/registry/domain"
)

// ReservationKafkaAdapter implements port.ReservationEventPublisher.
type ReservationKafkaAdapter struct {
	writer *kafka.Writer
}

// NewReservationKafkaAdapter creates a publisher over writer.
func NewReservationKafkaAdapter(writer *kafka.Writer) *ReservationKafkaAdapter {
	return &ReservationKafkaAdapter{writer: writer}
}

// PublishReservationCommitted writes the event keyed by item id, so all
// events of one item land on the same partition.
func (a *ReservationKafkaAdapter) PublishReservationCommitted(ctx context.Context, event *domain.ReservationCommitted) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal reservation event")
	}
	if err := mq.ProduceMessage(ctx, a.writer, []byte(event.ItemID.String()), eventBytes); err != nil {
		return errors.Wrap(err, "produce reservation event")
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (a *ReservationKafkaAdapter) Close() error {
	return a.writer.Close()
}
