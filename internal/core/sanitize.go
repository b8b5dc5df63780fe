package core

import (
	"regexp"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// Sanitize strips markup from a raw message body by replacing every tag
// occurrence with a single space. All other characters pass through
// unchanged, so match offsets in the result stay meaningful for context
// extraction. Idempotent on tag-free input.
func Sanitize(raw string) string {
	return markupTag.ReplaceAllString(raw, " ")
}
