// Package flags serves feature flags from the loaded configuration.
package flags

import (
	"context"

	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// Static evaluates flags against config.QuotesConfig. A community set on the
// context with ports.WithFlagCommunity picks up its override, if any.
type Static struct {
	cfg config.QuotesConfig
}

// New returns flags backed by cfg. The config is read-only after construction.
func New(cfg config.QuotesConfig) *Static {
	return &Static{cfg: cfg}
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	override, hasOverride := s.cfg.Communities[ports.FlagCommunity(ctx)]

	switch flag {
	case ports.FlagCaseSensitive:
		if hasOverride && override.CaseSensitive != nil {
			return *override.CaseSensitive
		}

		return s.cfg.CaseSensitive
	case ports.FlagGetNoPrefix:
		if hasOverride && override.GetNoPrefix != nil {
			return *override.GetNoPrefix
		}

		return s.cfg.GetNoPrefix
	default:
		return defaultValue
	}
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(_ context.Context, flag string, defaultValue int) int {
	if flag == ports.FlagImportWorkers && s.cfg.ImportWorkers > 0 {
		return s.cfg.ImportWorkers
	}

	return defaultValue
}
