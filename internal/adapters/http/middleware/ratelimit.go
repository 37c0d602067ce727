package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
)

// limiterIdleTTL is how long an unused community limiter is kept.
const limiterIdleTTL = 10 * time.Minute

// CommunityLimiter hands out one token bucket per community.
type CommunityLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.RWMutex
	limiters  map[string]*rate.Limiter
	lastSeen  map[string]time.Time
	lastSweep time.Time
}

// NewCommunityLimiter creates a limiter allowing rps sustained requests and
// burst extra per community.
func NewCommunityLimiter(rps float64, burst int) *CommunityLimiter {
	return &CommunityLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

// Allow reports whether community may make another request now.
func (l *CommunityLimiter) Allow(community string) bool {
	return l.limiter(community).AllowN(l.now(), 1)
}

// Len returns the number of tracked communities.
func (l *CommunityLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.limiters)
}

func (l *CommunityLimiter) limiter(community string) *rate.Limiter {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for c, seen := range l.lastSeen {
			if now.Sub(seen) > limiterIdleTTL {
				delete(l.limiters, c)
				delete(l.lastSeen, c)
			}
		}

		l.lastSweep = now
	}

	limiter, ok := l.limiters[community]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[community] = limiter
	}

	l.lastSeen[community] = now

	return limiter
}

// RateLimit returns middleware that rejects requests with 429 once the
// community in the path exceeds its budget. It is a no-op when disabled.
func RateLimit(cfg config.RateLimitConfig, m *metrics.Metrics) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	if m == nil {
		m = metrics.NewNop()
	}

	limiter := NewCommunityLimiter(cfg.RequestsPerSecond, cfg.Burst)

	return func(c *gin.Context) {
		if limiter.Allow(c.Param(communityParam)) {
			c.Next()
			return
		}

		m.RateLimited.WithLabelValues(c.FullPath()).Inc()
		logging.FromContext(c.Request.Context()).Warn("community rate limited")

		c.Header("Retry-After", "1")
		dto.AbortWithErrorCode(c, dto.ErrorCodeRateLimited, "Too many requests. Slow down and try again.")
	}
}
