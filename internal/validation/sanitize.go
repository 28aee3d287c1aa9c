package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// markupMessage is reported for free text that carries HTML.
const markupMessage = "must not contain HTML markup"

// SanitizeText strips every HTML tag from s and trims surrounding whitespace.
// Entities escaped by the policy are decoded again, so plain text such as
// "R&D" or "x>y" comes back unchanged.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeSymbol sanitizes an asset symbol and upper-cases it.
func SanitizeSymbol(s string) string {
	return strings.ToUpper(SanitizeText(s))
}

// PlainText trims s and reports whether it is free of markup, that is
// whether sanitizing would leave it unchanged. Callers reject the value
// instead of storing a silently rewritten one.
func PlainText(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, SanitizeText(trimmed) == trimmed
}
