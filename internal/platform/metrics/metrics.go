// Package metrics defines the Prometheus collectors exposed on /-/metrics.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quotebook"

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	// StoreOperations counts store calls by backend, operation and outcome.
	StoreOperations *prometheus.CounterVec

	// StoreDuration observes store call latency by backend and operation.
	StoreDuration *prometheus.HistogramVec

	// StoreReady is 1 while the store handle is ready.
	StoreReady *prometheus.GaugeVec

	// BreakerState reports the store circuit state: 0 closed, 1 open, 2 half-open.
	BreakerState *prometheus.GaugeVec

	// RateLimited counts interaction requests rejected by the per-community limiter.
	RateLimited *prometheus.CounterVec

	// ImportItems counts bulk import items by result.
	ImportItems *prometheus.CounterVec

	// ListRenders counts rendered list pages, split by whether the request was clamped.
	ListRenders *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Collectors that are
// already registered (a second New against the default registry) are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Quote store operations by outcome.",
		}, []string{"backend", "operation", "outcome"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Quote store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		StoreReady: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "ready",
			Help:      "Whether the quote store handle is ready.",
		}, []string{"backend"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "circuit_state",
			Help:      "Store circuit breaker state (0 closed, 1 open, 2 half-open).",
		}, []string{"backend"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Interaction requests rejected by the per-community rate limiter.",
		}, []string{"route"}),
		ImportItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "items_total",
			Help:      "Bulk import items by result.",
		}, []string{"result"}),
		ListRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "list",
			Name:      "renders_total",
			Help:      "Rendered quote list pages.",
		}, []string{"clamped"}),
	}

	var err error

	if m.StoreOperations, err = register(reg, m.StoreOperations); err != nil {
		return nil, err
	}

	if m.StoreDuration, err = register(reg, m.StoreDuration); err != nil {
		return nil, err
	}

	if m.StoreReady, err = register(reg, m.StoreReady); err != nil {
		return nil, err
	}

	if m.BreakerState, err = register(reg, m.BreakerState); err != nil {
		return nil, err
	}

	if m.RateLimited, err = register(reg, m.RateLimited); err != nil {
		return nil, err
	}

	if m.ImportItems, err = register(reg, m.ImportItems); err != nil {
		return nil, err
	}

	if m.ListRenders, err = register(reg, m.ListRenders); err != nil {
		return nil, err
	}

	return m, nil
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(fmt.Sprintf("metrics: fresh registry rejected collectors: %v", err))
	}

	return m
}

// register adds c to reg, returning the existing collector if an identical one
// is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("registering collector: %w", err)
}
