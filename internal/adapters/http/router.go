package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
	"github.com/jsamuelsen/quotebook/internal/platform/telemetry"
)

// DefaultRequestTimeout applies when the server config sets none.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig is everything SetupRouter mounts. Nil handlers leave their
// routes out.
type RouterConfig struct {
	Logger        *slog.Logger
	ServiceName   string
	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	RateLimit     config.RateLimitConfig
	Metrics       *metrics.Metrics

	// Timeout bounds every /api/v1 request.
	Timeout time.Duration
}

// SetupRouter mounts the probes under /- and the quote API under
// /api/v1/communities/:community.
//
// Every request passes recovery first, then gets its IDs, a span and a log
// line. API requests are then bounded by Timeout, and community routes are
// scoped to their community and rate limited per community.
//
// Routing uses the escaped path, so a quote name containing "/" is reachable as
// a single segment when the client sends it as %2F.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.UseRawPath = true
	engine.UnescapePathValues = true

	name := cfg.ServiceName
	if name == "" {
		name = "quotebook"
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(name),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Register(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.QuoteHandler == nil {
		return
	}

	communities := api.Group("/communities/:"+handlers.CommunityParam,
		middleware.Community(),
		middleware.RateLimit(cfg.RateLimit, cfg.Metrics),
	)
	cfg.QuoteHandler.RegisterQuoteRoutes(communities)
}

// NewRouterConfig assembles a RouterConfig from loaded configuration.
func NewRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	serverCfg *config.ServerConfig,
	health *handlers.HealthHandler,
	quotes *handlers.QuoteHandler,
	m *metrics.Metrics,
) RouterConfig {
	cfg := RouterConfig{
		Logger:        logger,
		ServiceName:   appCfg.Name,
		HealthHandler: health,
		QuoteHandler:  quotes,
		RateLimit:     serverCfg.RateLimit,
		Metrics:       m,
		Timeout:       serverCfg.RequestTimeout,
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}

	return cfg
}
