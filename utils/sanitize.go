package utils

import "github.com/microcosm-cc/bluemonday"

var (
	// htmlPolicy keeps the safe UGC subset for wiki page bodies.
	htmlPolicy = bluemonday.UGCPolicy()
	// textPolicy strips all markup, for single-line fields like nicknames.
	textPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText removes every tag, leaving plain text.
func SanitizeText(input string) string {
	return textPolicy.Sanitize(input)
}
