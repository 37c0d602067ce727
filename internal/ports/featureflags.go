package ports

import (
	"context"
)

// Flag names understood by the quote service.
const (
	// FlagCaseSensitive selects case-sensitive quote name matching.
	FlagCaseSensitive = "case_sensitive"

	// FlagGetNoPrefix enables looking up quotes from bare chat messages.
	FlagGetNoPrefix = "get_no_prefix"

	// FlagImportWorkers bounds the concurrency of bulk import.
	FlagImportWorkers = "import_workers"
)

// FeatureFlags defines the contract for feature flag evaluation.
// The application asks for a flag by name and always supplies the value to use
// when the provider has no opinion.
//
// Example usage:
//
//	caseSensitive := flags.IsEnabled(ctx, ports.FlagCaseSensitive, false)
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist.
	// The context may carry a community for per-community overrides.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetInt retrieves an integer feature flag value.
	// Returns defaultValue if the flag doesn't exist.
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

type flagCommunityKey struct{}

// WithFlagCommunity scopes flag evaluation in ctx to a community.
func WithFlagCommunity(ctx context.Context, community string) context.Context {
	return context.WithValue(ctx, flagCommunityKey{}, community)
}

// FlagCommunity returns the community set by WithFlagCommunity, or "".
func FlagCommunity(ctx context.Context) string {
	if community, ok := ctx.Value(flagCommunityKey{}).(string); ok {
		return community
	}

	return ""
}
