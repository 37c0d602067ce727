// Package app contains application services that orchestrate use cases.
// It coordinates domain rules and the quote store through ports and knows
// nothing about HTTP or the storage engine in use.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// DefaultImportWorkers is used when the flag provider has no import_workers value.
const DefaultImportWorkers = 4

// ImportStatus is the per-item outcome of a bulk import.
type ImportStatus string

const (
	ImportCreated ImportStatus = "created"
	ImportExists  ImportStatus = "exists"
	ImportInvalid ImportStatus = "invalid"
)

// ImportItem is one quote to import.
type ImportItem struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// ImportResult reports what happened to one ImportItem. Results keep the
// order of the input.
type ImportResult struct {
	Name    string       `json:"name"`
	Status  ImportStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// QuoteService orchestrates quote use cases.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	store   ports.QuoteStore
	flags   ports.FeatureFlags
	create  write[createInput, *domain.Quote]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// QuoteServiceConfig contains the quote service dependencies. Store is
// required; the rest have defaults.
type QuoteServiceConfig struct {
	Store   ports.QuoteStore
	Flags   ports.FeatureFlags
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewQuoteService creates a quote service. It panics without a store.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app: quote service requires a store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	logger = logger.With(slog.String("component", "app.QuoteService"))

	s := &QuoteService{
		store:   cfg.Store,
		flags:   cfg.Flags,
		metrics: m,
		logger:  logger,
	}

	s.create = write[createInput, *domain.Quote]{
		op: "create_quote",
		check: func(in createInput) error {
			return domain.ValidateQuote(in.name, in.text)
		},
		apply: func(ctx context.Context, in createInput) (*domain.Quote, error) {
			return s.store.Create(ctx, in.community, domain.Quote{Name: in.name, Text: in.text}, in.caseSensitive)
		},
		verify: func(in createInput, created *domain.Quote) error {
			if created == nil || created.Name != in.name || created.Text != in.text {
				return domain.NewFaultError("create quote", errors.New("store returned a different quote"))
			}

			return nil
		},
	}

	return s
}

// CaseSensitive reports the case policy in effect for community.
func (s *QuoteService) CaseSensitive(ctx context.Context, community string) bool {
	if s.flags == nil {
		return false
	}

	return s.flags.IsEnabled(ports.WithFlagCommunity(ctx, community), ports.FlagCaseSensitive, false)
}

// Get returns the quote called name. The name is validated first, so a
// malformed name never reaches the store.
func (s *QuoteService) Get(ctx context.Context, community, name string) (*domain.Quote, error) {
	name = strings.TrimSpace(name)

	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	quote, err := s.store.Get(ctx, community, name, s.CaseSensitive(ctx, community))
	if err != nil {
		return nil, fmt.Errorf("getting quote: %w", err)
	}

	return quote, nil
}

type createInput struct {
	community     string
	name          string
	text          string
	caseSensitive bool
}

// Create stores a new quote. The name is trimmed and the text right-trimmed
// before validation.
func (s *QuoteService) Create(ctx context.Context, community, name, text string) (*domain.Quote, error) {
	input := createInput{
		community:     community,
		name:          strings.TrimSpace(name),
		text:          strings.TrimRight(text, " \t\r\n"),
		caseSensitive: s.CaseSensitive(ctx, community),
	}

	return s.create.run(ctx, s.logger, input)
}

// Delete removes the quote called name and reports whether one was removed.
func (s *QuoteService) Delete(ctx context.Context, community, name string) (bool, error) {
	name = strings.TrimSpace(name)

	if err := domain.ValidateName(name); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, community, name, s.CaseSensitive(ctx, community))
	if err != nil {
		return false, fmt.Errorf("deleting quote: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote delete",
		slog.String("community", community),
		slog.String("name", name),
		slog.Bool("deleted", deleted),
	)

	return deleted, nil
}

// LookupBare treats a plain chat message as a quote name when the community
// has get_no_prefix enabled. It returns (nil, nil) whenever the message should
// be ignored: the flag is off, the message is not a valid name, or no quote
// matches. Only store failures are errors.
func (s *QuoteService) LookupBare(ctx context.Context, community, content string) (*domain.Quote, error) {
	if s.flags == nil || !s.flags.IsEnabled(ports.WithFlagCommunity(ctx, community), ports.FlagGetNoPrefix, false) {
		return nil, nil
	}

	name := strings.TrimSpace(content)
	if domain.ValidateName(name) != nil {
		return nil, nil
	}

	quote, err := s.store.Get(ctx, community, name, s.CaseSensitive(ctx, community))
	if domain.IsNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("looking up quote: %w", err)
	}

	return quote, nil
}

// Import creates every item that is valid and not yet taken. Items run on a
// bounded number of workers; the first store failure stops the batch and is
// returned without results.
func (s *QuoteService) Import(ctx context.Context, community string, items []ImportItem) ([]ImportResult, error) {
	workers := DefaultImportWorkers
	if s.flags != nil {
		workers = s.flags.GetInt(ctx, ports.FlagImportWorkers, DefaultImportWorkers)
	}

	results, err := BoundedMap(ctx, workers, items, func(ctx context.Context, item ImportItem) (ImportResult, error) {
		result := ImportResult{Name: strings.TrimSpace(item.Name)}

		_, err := s.Create(ctx, community, item.Name, item.Text)

		switch {
		case err == nil:
			result.Status = ImportCreated
		case domain.IsValidation(err):
			result.Status = ImportInvalid
			result.Message = validationMessage(err)
		case domain.IsAlreadyExists(err):
			result.Status = ImportExists
		default:
			return ImportResult{}, err
		}

		s.metrics.ImportItems.WithLabelValues(string(result.Status)).Inc()

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing quotes: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote import finished",
		slog.String("community", community),
		slog.Int("items", len(items)),
		slog.Int("workers", workers),
	)

	return results, nil
}

func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	return err.Error()
}
