// Package metrics holds the Prometheus collectors of the registry service.
// They are registered on the default registry and served by promhttp on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry"

var (
	// BackendAttempts counts storage tier calls.
	// Labels: backend (commit-relay, github, local-file), op (read, write),
	// outcome (success, failure, skipped).
	BackendAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storage",
		Name:      "backend_attempts_total",
		Help:      "Storage backend calls by tier, operation and outcome.",
	}, []string{"backend", "op", "outcome"})

	// Reservations counts reserve/mark outcomes.
	// Labels: flow (guest, direct), result.
	Reservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_total",
		Help:      "Reservation attempts by flow and result.",
	}, []string{"flow", "result"})

	// RelayVerdicts counts webhook verdicts by how they were reached.
	RelayVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "verdicts_total",
		Help:      "Reservation webhook verdicts by source and result.",
	}, []string{"source", "ok"})
)
