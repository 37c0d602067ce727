package store

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
	"github.com/jsamuelsen/quotebook/internal/platform/telemetry"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// jitterRange converts rand [0,1) to [-1,1) for symmetric jitter.
const jitterRange = 2

// Backend is a concrete quote store such as MongoDB or SQLite.
type Backend interface {
	ports.QuoteStore

	// Name identifies the backend in logs, metrics and errors.
	Name() string

	// Ready reports whether the handle has finished connecting and is not closed.
	Ready() bool

	// Ping round-trips to the database.
	Ping(ctx context.Context) error
}

// GuardConfig configures a Guard.
type GuardConfig struct {
	Retry   config.RetryConfig
	Breaker config.CircuitBreakerConfig
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Guard is the ports.QuoteStore the application uses. Every call is refused with
// domain.ErrUnavailable while the backend is not ready or the circuit is open.
// Reads are retried on transient unavailability; writes never are.
type Guard struct {
	backend Backend
	retry   config.RetryConfig
	breaker *breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

var (
	_ ports.QuoteStore    = (*Guard)(nil)
	_ ports.HealthChecker = (*Guard)(nil)
)

// NewGuard wraps backend.
func NewGuard(backend Backend, cfg GuardConfig) *Guard {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "store.Guard"), slog.String("backend", backend.Name()))

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	g := &Guard{
		backend: backend,
		retry:   cfg.Retry,
		metrics: m,
		logger:  logger,
		tracer:  telemetry.Tracer(),
	}

	g.breaker = newBreaker(cfg.Breaker, func(from, to BreakerState) {
		logger.Warn("store circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
		m.BreakerState.WithLabelValues(backend.Name()).Set(float64(to))
	})

	m.BreakerState.WithLabelValues(backend.Name()).Set(float64(BreakerClosed))

	return g
}

// Name implements ports.HealthChecker.
func (g *Guard) Name() string {
	return "store"
}

// Check implements ports.HealthChecker. The store is healthy when the handle is
// ready, the circuit is not open and the database answers a ping.
func (g *Guard) Check(ctx context.Context) error {
	ready := g.backend.Ready()
	g.metrics.StoreReady.WithLabelValues(g.backend.Name()).Set(boolToFloat(ready))

	if !ready {
		return domain.NewUnavailableError(g.backend.Name(), "not ready")
	}

	if g.breaker.current() == BreakerOpen {
		return domain.NewUnavailableError(g.backend.Name(), "circuit open")
	}

	return g.backend.Ping(ctx)
}

// BreakerState returns the current circuit state.
func (g *Guard) BreakerState() BreakerState {
	return g.breaker.current()
}

// Get implements ports.QuoteStore.
func (g *Guard) Get(ctx context.Context, community, name string, caseSensitive bool) (*domain.Quote, error) {
	var q *domain.Quote

	err := g.call(ctx, "get", community, true, func(ctx context.Context) error {
		var err error
		q, err = g.backend.Get(ctx, community, name, caseSensitive)

		return err
	})

	return q, err
}

// Create implements ports.QuoteStore.
func (g *Guard) Create(ctx context.Context, community string, quote domain.Quote, caseSensitive bool) (*domain.Quote, error) {
	var q *domain.Quote

	err := g.call(ctx, "create", community, false, func(ctx context.Context) error {
		var err error
		q, err = g.backend.Create(ctx, community, quote, caseSensitive)

		return err
	})

	return q, err
}

// Delete implements ports.QuoteStore.
func (g *Guard) Delete(ctx context.Context, community, name string, caseSensitive bool) (bool, error) {
	var deleted bool

	err := g.call(ctx, "delete", community, false, func(ctx context.Context) error {
		var err error
		deleted, err = g.backend.Delete(ctx, community, name, caseSensitive)

		return err
	})

	return deleted, err
}

// Count implements ports.QuoteStore.
func (g *Guard) Count(ctx context.Context, community string) (int, error) {
	var n int

	err := g.call(ctx, "count", community, true, func(ctx context.Context) error {
		var err error
		n, err = g.backend.Count(ctx, community)

		return err
	})

	return n, err
}

// ListPage implements ports.QuoteStore.
func (g *Guard) ListPage(ctx context.Context, community string, page, perPage int) (*domain.QuotePage, error) {
	var p *domain.QuotePage

	err := g.call(ctx, "list_page", community, true, func(ctx context.Context) error {
		var err error
		p, err = g.backend.ListPage(ctx, community, page, perPage)

		return err
	})

	return p, err
}

// MaxPages implements ports.QuoteStore.
func (g *Guard) MaxPages(ctx context.Context, community string, perPage int) (int, error) {
	var n int

	err := g.call(ctx, "max_pages", community, true, func(ctx context.Context) error {
		var err error
		n, err = g.backend.MaxPages(ctx, community, perPage)

		return err
	})

	return n, err
}

// call runs fn under the readiness check, the breaker, a span and metrics.
func (g *Guard) call(ctx context.Context, op, community string, read bool, fn func(context.Context) error) error {
	backend := g.backend.Name()
	start := time.Now()

	ctx, span := g.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", backend),
			attribute.String("db.operation", op),
			attribute.String("quotebook.community", community),
		),
	)
	defer span.End()

	err := g.attempt(ctx, op, read, fn)

	outcome := outcomeOf(err)
	if err != nil && ctx.Err() != nil {
		outcome = outcomeAbandoned
	}

	g.metrics.StoreOperations.WithLabelValues(backend, op, outcome).Inc()
	g.metrics.StoreDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("quotebook.outcome", outcome))

	logger := logging.FromContext(ctx)

	if outcome != outcomeAbandoned && isStoreFailure(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("store operation failed",
			slog.String("backend", backend),
			slog.String("operation", op),
			slog.String("community", community),
			slog.Any("error", err),
		)

		return err
	}

	logging.Trace(ctx, "store operation",
		slog.String("backend", backend),
		slog.String("operation", op),
		slog.String("community", community),
		slog.String("outcome", outcome),
		slog.Duration("duration", time.Since(start)),
	)

	return err
}

func (g *Guard) attempt(ctx context.Context, op string, read bool, fn func(context.Context) error) error {
	backend := g.backend.Name()

	if !g.backend.Ready() {
		g.metrics.StoreReady.WithLabelValues(backend).Set(0)
		return domain.NewUnavailableError(backend, "not ready")
	}

	if !g.breaker.allow() {
		return domain.NewUnavailableError(backend, "circuit open")
	}

	attempts := 1
	if read {
		attempts = g.retry.MaxAttempts
	}

	var err error

	for i := range attempts {
		if i > 0 {
			backoff := g.backoff(i)
			logging.FromContext(ctx).Debug("retrying store read",
				slog.String("operation", op),
				slog.Int("attempt", i+1),
				slog.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				g.breaker.release()
				return err
			case <-time.After(backoff):
			}
		}

		err = fn(ctx)

		// A call cut short by its caller says nothing about the store.
		if err != nil && ctx.Err() != nil {
			g.breaker.release()
			return err
		}

		if !domain.IsUnavailable(err) {
			break
		}
	}

	g.breaker.record(isStoreFailure(err))

	return err
}

// backoff returns the exponential delay before retry attempt n (n ≥ 1) with
// symmetric jitter.
func (g *Guard) backoff(n int) time.Duration {
	d := float64(g.retry.InitialInterval) * math.Pow(g.retry.Multiplier, float64(n-1))
	if maxD := float64(g.retry.MaxInterval); maxD > 0 && d > maxD {
		d = maxD
	}

	if g.retry.JitterFactor > 0 {
		d += d * g.retry.JitterFactor * (rand.Float64()*jitterRange - 1) //nolint:gosec // jitter does not need crypto randomness
	}

	return time.Duration(d)
}

// isStoreFailure reports whether err means the store itself misbehaved, as
// opposed to an expected outcome such as a missing quote.
func isStoreFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	return domain.IsUnavailable(err) || domain.IsFault(err) ||
		errors.Is(err, context.DeadlineExceeded)
}

// outcomeAbandoned labels calls whose caller went away before they finished.
const outcomeAbandoned = "abandoned"

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsConflict(err):
		return "conflict"
	case domain.IsValidation(err):
		return "invalid"
	case domain.IsUnavailable(err):
		return "unavailable"
	default:
		return "fault"
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
