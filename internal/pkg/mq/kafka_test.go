package mq

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestKafkaHeaderCarrier(t *testing.T) {
	carrier := KafkaHeaderCarrier{{Key: "a", Value: []byte("1")}}
	carrier.Set("b", "2")
	carrier.Set("a", "3")

	assert.Equal(t, "3", carrier.Get("a"))
	assert.Equal(t, "2", carrier.Get("b"))
	assert.Empty(t, carrier.Get("missing"))
	assert.ElementsMatch(t, []string{"a", "b"}, carrier.Keys())
}

func TestKafkaHeaderCarrier_TraceRoundTrip(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var carrier KafkaHeaderCarrier
	propagation.TraceContext{}.Inject(ctx, &carrier)
	require.NotEmpty(t, carrier.Get("traceparent"))

	extracted := trace.SpanContextFromContext(propagation.TraceContext{}.Extract(context.Background(), &carrier))
	assert.Equal(t, traceID, extracted.TraceID())
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"k1:9092", "k2:9092"}, "registry-reservations")
	defer w.Close()
	assert.Equal(t, "registry-reservations", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}
