package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		matches  []string
		rejected []string
	}{
		{
			name:     "metacharacters are literal",
			input:    "a.b*c",
			matches:  []string{"a.b*c", "A.B*C"},
			rejected: []string{"aXbXXXc", "abc", "a.bbbc", "xa.b*c", "a.b*cx"},
		},
		{
			name:     "anchors are literal",
			input:    "^start$",
			matches:  []string{"^start$"},
			rejected: []string{"start"},
		},
		{
			name:     "brackets and groups",
			input:    "[x](y)|{2}",
			matches:  []string{"[x](y)|{2}"},
			rejected: []string{"x", "y", "xx"},
		},
		{
			name:     "backslash",
			input:    `a\d`,
			matches:  []string{`a\d`},
			rejected: []string{"a1"},
		},
		{
			name:     "plain name",
			input:    "hello",
			matches:  []string{"hello", "HELLO"},
			rejected: []string{"hello!", "hell", "hello\n", "\nhello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile("(?i)" + NamePattern(tt.input))

			for _, s := range tt.matches {
				assert.True(t, re.MatchString(s), "expected %q to match %q", s, tt.input)
			}

			for _, s := range tt.rejected {
				assert.False(t, re.MatchString(s), "expected %q not to match %q", s, tt.input)
			}
		})
	}
}

func TestNamePattern_EndsAtEndOfText(t *testing.T) {
	pattern := NamePattern("motd")

	assert.Equal(t, `\Amotd\z`, pattern)
	assert.NotContains(t, pattern, "$")
}
