package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/platform/config"
)

// fakeClock is a manually advanced clock for breaker tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

func newTestBreaker(maxFailures, halfOpenLimit int) (*breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := newBreaker(config.CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       10 * time.Second,
		HalfOpenLimit: halfOpenLimit,
	}, nil)
	b.now = clock.now

	return b, clock
}

func TestBreaker_InitialState(t *testing.T) {
	b, _ := newTestBreaker(3, 2)

	assert.Equal(t, BreakerClosed, b.current())
	assert.True(t, b.allow())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(3, 2)

	for range 2 {
		require.True(t, b.allow())
		b.record(true)
	}

	assert.Equal(t, BreakerClosed, b.current())

	require.True(t, b.allow())
	b.record(true)

	assert.Equal(t, BreakerOpen, b.current())
	assert.False(t, b.allow())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(2, 1)

	b.record(true)
	b.record(false)
	b.record(true)

	assert.Equal(t, BreakerClosed, b.current())
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b, clock := newTestBreaker(1, 2)
	b.record(true)
	require.Equal(t, BreakerOpen, b.current())

	clock.advance(9 * time.Second)
	assert.False(t, b.allow())

	clock.advance(time.Second)
	assert.True(t, b.allow())
	assert.Equal(t, BreakerHalfOpen, b.current())

	// one more probe fits under the limit of two, a third does not
	assert.True(t, b.allow())
	assert.False(t, b.allow())
}

func TestBreaker_HalfOpenClosesAfterSuccesses(t *testing.T) {
	b, clock := newTestBreaker(1, 2)
	b.record(true)
	clock.advance(10 * time.Second)

	require.True(t, b.allow())
	b.record(false)
	assert.Equal(t, BreakerHalfOpen, b.current())

	require.True(t, b.allow())
	b.record(false)
	assert.Equal(t, BreakerClosed, b.current())
}

func TestBreaker_HalfOpenReopensOnFailure(t *testing.T) {
	b, clock := newTestBreaker(1, 2)
	b.record(true)
	clock.advance(10 * time.Second)

	require.True(t, b.allow())
	b.record(true)

	assert.Equal(t, BreakerOpen, b.current())
	assert.False(t, b.allow())
}

func TestBreaker_ReleaseIsNeutral(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		b, _ := newTestBreaker(1, 1)

		for range 5 {
			require.True(t, b.allow())
			b.release()
		}

		assert.Equal(t, BreakerClosed, b.current())
	})

	t.Run("half-open frees the slot", func(t *testing.T) {
		b, clock := newTestBreaker(1, 1)
		b.record(true)
		clock.advance(10 * time.Second)

		require.True(t, b.allow())
		assert.False(t, b.allow())

		b.release()
		assert.Equal(t, BreakerHalfOpen, b.current())

		require.True(t, b.allow())
		b.record(false)
		assert.Equal(t, BreakerClosed, b.current())
	})
}

func TestBreaker_OnChange(t *testing.T) {
	var transitions []string

	b := newBreaker(config.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1},
		func(from, to BreakerState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		})

	b.record(true)

	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreaker_Concurrent(t *testing.T) {
	b, _ := newTestBreaker(1000, 1)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if b.allow() {
				b.record(i%2 == 0)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, BreakerClosed, b.current())
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(42).String())
}
