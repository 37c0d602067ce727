// Package store wraps quote store backends with readiness checks, a circuit
// breaker, retries for reads, tracing and metrics.
package store

import "regexp"

// NamePattern returns an anchored regular expression that matches name
// literally. Every metacharacter in name is escaped, so "a.b*c" only matches
// the five characters a . b * c. The pattern ends in \z rather than $ because
// a PCRE $ also matches before a trailing newline.
func NamePattern(name string) string {
	return `\A` + regexp.QuoteMeta(name) + `\z`
}
