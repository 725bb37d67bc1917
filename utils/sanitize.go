package utils

import "github.com/microcosm-cc/bluemonday"

// Names and handles are plain text; strip all markup.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML from user supplied display fields.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
