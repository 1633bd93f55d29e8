package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInputTooLarge = errors.New("message too long")
	ErrInvalidUTF8   = errors.New("message is not valid UTF-8")
)

// cleanText checks a typed message against limit, counted in characters, and drops
// control characters. Line breaks and tabs survive; everything else is kept verbatim,
// since the text may end up as the client email on checkout.
func cleanText(text string, limit int) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}
	if n := utf8.RuneCountInString(text); n > limit {
		return "", fmt.Errorf("%w: %d characters, limit %d", ErrInputTooLarge, n, limit)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text), nil
}
