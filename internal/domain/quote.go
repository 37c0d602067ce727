// Package domain contains core business entities and rules.
package domain

import "time"

// Field limits for quotes.
const (
	// NameMaxChars is the maximum length of a quote name, in characters.
	NameMaxChars = 100

	// TextMaxChars is the maximum length of a quote body, in characters.
	TextMaxChars = 1500
)

// EntityQuote is the entity name used in quote errors.
const EntityQuote = "quote"

// Quote is a named text snippet saved by a community.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Community is the chat community the quote belongs to.
	Community string

	// Name is the lookup key, unique within the community under the active case policy.
	Name string

	// Text is the body that gets posted back when the quote is requested.
	Text string

	// CreatedAt is when the quote was stored. Zero for records written before it was tracked.
	CreatedAt time.Time
}

// QuotePage is one page of quote names in listing order.
type QuotePage struct {
	Names []string
}
