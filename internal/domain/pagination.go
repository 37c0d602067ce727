package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PerPage is the number of quote names shown on one list page.
const PerPage = 10

// Page label format. The label is the only place list position survives between
// two interactions: clients echo it back with every navigation event, so any change
// here must keep DecodePageLabel the exact inverse of EncodePageLabel.
const (
	pageLabelPrefix    = "Page "
	pageLabelSeparator = " of "
)

// ErrInvalidPageLabel is returned when a label was not produced by EncodePageLabel.
var ErrInvalidPageLabel = &ValidationError{Field: "label", Message: "not a page label"}

// PageState is the position of a rendered list: a zero-based page and the page count.
type PageState struct {
	CurrentPage int
	MaxPages    int
}

// EncodePageLabel renders state as "Page {CurrentPage+1} of {MaxPages}".
// CurrentPage must not be negative. The one-based number is formatted unsigned
// so math.MaxInt still renders.
func EncodePageLabel(state PageState) string {
	return pageLabelPrefix + strconv.FormatUint(uint64(state.CurrentPage)+1, 10) + pageLabelSeparator + strconv.Itoa(state.MaxPages)
}

// DecodePageLabel recovers the PageState from a label made by EncodePageLabel.
func DecodePageLabel(label string) (PageState, error) {
	rest, ok := strings.CutPrefix(label, pageLabelPrefix)
	if !ok {
		return PageState{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidPageLabel, pageLabelPrefix)
	}

	current, total, ok := strings.Cut(rest, pageLabelSeparator)
	if !ok {
		return PageState{}, fmt.Errorf("%w: missing %q separator", ErrInvalidPageLabel, pageLabelSeparator)
	}

	page, err := parseDigits(current)
	if err != nil || page < 1 || page-1 > math.MaxInt {
		return PageState{}, fmt.Errorf("%w: bad page number %q", ErrInvalidPageLabel, current)
	}

	maxPages, err := parseDigits(total)
	if err != nil || maxPages < 1 || maxPages > math.MaxInt {
		return PageState{}, fmt.Errorf("%w: bad page count %q", ErrInvalidPageLabel, total)
	}

	return PageState{CurrentPage: int(page - 1), MaxPages: int(maxPages)}, nil
}

// MaxPages returns ceil(count/perPage), never less than 1.
func MaxPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}

	return (count + perPage - 1) / perPage
}

var errNotDigits = errors.New("not a digit run")

// parseDigits accepts only an unsigned run of ASCII digits.
func parseDigits(s string) (uint64, error) {
	if s == "" {
		return 0, errNotDigits
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotDigits
		}
	}

	return strconv.ParseUint(s, 10, 64)
}
