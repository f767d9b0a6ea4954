package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// NormalizeName turns a free-text location into its pool key: every rune
// outside [A-Za-z0-9] and whitespace becomes a space, whitespace runs collapse
// to one space, and the result is capitalized (first letter upper, rest lower).
// It never fails; input with nothing usable yields "".
func NormalizeName(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, raw)

	collapsed := strings.Join(strings.Fields(cleaned), " ")
	if collapsed == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(collapsed)
	return string(unicode.ToUpper(first)) + lower.String(collapsed[size:])
}

// NormalizeTripCode trims and lowercases a trip identifier.
func NormalizeTripCode(raw string) string {
	return lower.String(strings.TrimSpace(raw))
}
