package store

import (
	"sync"
	"time"

	"github.com/jsamuelsen/quotebook/internal/platform/config"
)

// BreakerState is the state of the store circuit breaker.
type BreakerState int

const (
	// BreakerClosed lets every call through.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects calls until the open timeout has passed.
	BreakerOpen

	// BreakerHalfOpen lets a limited number of probe calls through.
	BreakerHalfOpen
)

// String returns a human-readable name for the state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker stops calls to a store that keeps failing.
//
//   - closed → open after MaxFailures consecutive failures
//   - open → half-open once Timeout has passed since the last failure
//   - half-open → closed after HalfOpenLimit consecutive successes
//   - half-open → open on any failure
//
// Only store failures count. A missing quote or a duplicate name is a
// successful round trip.
type breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	probes    int
	lastFail  time.Time
	cfg       config.CircuitBreakerConfig
	now       func() time.Time
	onChange  func(from, to BreakerState)
}

func newBreaker(cfg config.CircuitBreakerConfig, onChange func(from, to BreakerState)) *breaker {
	return &breaker{
		state:    BreakerClosed,
		cfg:      cfg,
		now:      time.Now,
		onChange: onChange,
	}
}

// allow reports whether a call may proceed. A true result must be followed by
// exactly one call to record or release.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.lastFail) < b.cfg.Timeout {
			return false
		}

		b.transition(BreakerHalfOpen)
		b.probes = 1

		return true
	case BreakerHalfOpen:
		if b.probes >= b.cfg.HalfOpenLimit {
			return false
		}

		b.probes++

		return true
	default:
		return false
	}
}

// record reports the outcome of a call admitted by allow.
func (b *breaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen && b.probes > 0 {
		b.probes--
	}

	if failed {
		b.lastFail = b.now()

		switch b.state {
		case BreakerClosed:
			b.failures++
			if b.failures >= b.cfg.MaxFailures {
				b.transition(BreakerOpen)
			}
		case BreakerHalfOpen:
			b.transition(BreakerOpen)
		}

		return
	}

	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenLimit {
			b.transition(BreakerClosed)
		}
	}
}

// release ends a call admitted by allow without counting it either way.
func (b *breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen && b.probes > 0 {
		b.probes--
	}
}

func (b *breaker) current() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// transition must be called with b.mu held. The callback runs synchronously,
// so it must not call back into the breaker.
func (b *breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0

	if to != BreakerHalfOpen {
		b.probes = 0
	}

	if b.onChange != nil {
		b.onChange(from, to)
	}
}
