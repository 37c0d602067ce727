package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// NavAction is a list control event.
type NavAction string

const (
	NavPrev   NavAction = "prev"
	NavNext   NavAction = "next"
	NavSelect NavAction = "select"
)

// ParseNavAction validates a control event name.
func ParseNavAction(s string) (NavAction, error) {
	switch a := NavAction(s); a {
	case NavPrev, NavNext, NavSelect:
		return a, nil
	default:
		return "", domain.NewValidationErrorWithValue("action", "must be one of: prev next select", s)
	}
}

// PageOption is one entry of the page selection menu.
type PageOption struct {
	Label     string `json:"label"`
	Value     int    `json:"value"`
	IsCurrent bool   `json:"isCurrent"`
}

// RenderModel is a rendered list page. When Empty is set every other field is
// zero and no controls are shown.
type RenderModel struct {
	Empty       bool         `json:"empty"`
	Label       string       `json:"label,omitempty"`
	Lines       []string     `json:"lines,omitempty"`
	PrevEnabled bool         `json:"prevEnabled"`
	NextEnabled bool         `json:"nextEnabled"`
	PageOptions []PageOption `json:"pageOptions,omitempty"`
	Page        int          `json:"page"`
	MaxPages    int          `json:"maxPages"`
}

// Navigator renders the paginated quote list. It holds no per-list state: the
// position comes back in the page label of the previous render.
type Navigator struct {
	store   ports.QuoteStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NavigatorConfig contains the navigator dependencies.
type NavigatorConfig struct {
	Store   ports.QuoteStore
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewNavigator creates a navigator. It panics without a store.
func NewNavigator(cfg NavigatorConfig) *Navigator {
	if cfg.Store == nil {
		panic("app: navigator requires a store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	return &Navigator{
		store:   cfg.Store,
		metrics: m,
		logger:  logger.With(slog.String("component", "app.Navigator")),
	}
}

// Render builds page requestedPage of community's list. Out of range requests
// are clamped to the nearest page.
func (n *Navigator) Render(ctx context.Context, community string, requestedPage int) (*RenderModel, error) {
	count, err := n.store.Count(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("counting quotes: %w", err)
	}

	if count == 0 {
		return &RenderModel{Empty: true}, nil
	}

	maxPages := domain.MaxPages(count, domain.PerPage)
	page := clampPage(requestedPage, maxPages)
	clamped := page != requestedPage

	if clamped {
		logging.FromContextOr(ctx, n.logger).ErrorContext(ctx, "list page out of range",
			slog.String("community", community),
			slog.Int("requested", requestedPage),
			slog.Int("served", page),
			slog.Int("max_pages", maxPages),
		)
	}

	n.metrics.ListRenders.WithLabelValues(strconv.FormatBool(clamped)).Inc()

	names, err := n.store.ListPage(ctx, community, page, domain.PerPage)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return buildModel(page, maxPages, names.Names), nil
}

// Navigate applies action to the list position encoded in label and renders
// the result. value is the zero-based page for NavSelect and ignored otherwise.
func (n *Navigator) Navigate(ctx context.Context, community, label string, action NavAction, value int) (*RenderModel, error) {
	state, err := domain.DecodePageLabel(label)
	if err != nil {
		return nil, err
	}

	target := state.CurrentPage

	switch action {
	case NavPrev:
		target--
	case NavNext:
		if target < math.MaxInt {
			target++
		}
	case NavSelect:
		target = value
	default:
		return nil, domain.NewValidationErrorWithValue("action", "must be one of: prev next select", string(action))
	}

	return n.Render(ctx, community, target)
}

func clampPage(page, maxPages int) int {
	if page < 0 {
		return 0
	}

	if page >= maxPages {
		return maxPages - 1
	}

	return page
}

func buildModel(page, maxPages int, names []string) *RenderModel {
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = "• " + name
	}

	options := make([]PageOption, maxPages)
	for i := range options {
		options[i] = PageOption{
			Label:     "Page " + strconv.Itoa(i+1),
			Value:     i,
			IsCurrent: i == page,
		}
	}

	return &RenderModel{
		Label:       domain.EncodePageLabel(domain.PageState{CurrentPage: page, MaxPages: maxPages}),
		Lines:       lines,
		PrevEnabled: page > 0,
		NextEnabled: page+1 < maxPages,
		PageOptions: options,
		Page:        page,
		MaxPages:    maxPages,
	}
}
