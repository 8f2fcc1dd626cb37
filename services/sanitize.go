package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every HTML tag; bluemonday policies are safe for concurrent use
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes markup from free text and trims surrounding whitespace.
// Entities escaped by the policy are decoded again since the text is stored, not rendered.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeOptional sanitizes an optional field, leaving nil untouched
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	return &clean
}
