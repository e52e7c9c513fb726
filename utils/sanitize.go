package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks while keeping
// user-generated markup such as links and formatting.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup. Used for fields that are plain text,
// like titles, nicknames, and category names.
func SanitizePlain(input string) string {
	return plainPolicy.Sanitize(input)
}
