// Package main is quotectl, an admin CLI that manages community quotes directly
// against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jsamuelsen/quotebook/internal/adapters/flags"
	"github.com/jsamuelsen/quotebook/internal/adapters/store"
	"github.com/jsamuelsen/quotebook/internal/adapters/store/driver"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// Version is injected via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd(openRuntime).Execute(); err != nil {
		if !errors.Is(err, errNotFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}

// openRuntime loads the profile's configuration and opens the store it names.
// Logs go to stderr so command output stays clean.
func openRuntime(ctx context.Context, profile string) (*runtime, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "text",
		Service: "quotectl",
		Version: Version,
	}, os.Stderr)

	backend, closeBackend, err := driver.Open(ctx, &cfg.Store, "quotectl")
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	guard := store.NewGuard(backend, store.GuardConfig{
		Retry:   cfg.Store.Retry,
		Breaker: cfg.Store.CircuitBreaker,
		Logger:  logger,
	})

	return &runtime{
		service: app.NewQuoteService(app.QuoteServiceConfig{
			Store:  guard,
			Flags:  flags.New(cfg.Quotes),
			Logger: logger,
		}),
		navigator: app.NewNavigator(app.NavigatorConfig{Store: guard, Logger: logger}),
		close:     closeBackend,
	}, nil
}
