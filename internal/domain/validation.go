package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// User-facing validation messages.
var (
	MsgNameHasSpace = "Name has a space in it. Spaces are not allowed in quote names."
	MsgNameLength   = "Name is too long. Names must be between 1 and " + strconv.Itoa(NameMaxChars) + " characters."
	MsgTextLength   = "Quote is too long. Quotes must be between 1 and " + strconv.Itoa(TextMaxChars) + " characters."
)

// ValidateName checks a quote name. The space check runs before the length check.
func ValidateName(name string) error {
	if strings.Contains(name, " ") {
		return NewValidationErrorWithValue("name", MsgNameHasSpace, name)
	}

	if n := utf8.RuneCountInString(name); n < 1 || n > NameMaxChars {
		return NewValidationErrorWithValue("name", MsgNameLength, name)
	}

	return nil
}

// ValidateText checks a quote body.
func ValidateText(text string) error {
	if n := utf8.RuneCountInString(text); n < 1 || n > TextMaxChars {
		return NewValidationError("text", MsgTextLength)
	}

	return nil
}

// ValidateQuote checks both name and text, name first.
func ValidateQuote(name, text string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	return ValidateText(text)
}
