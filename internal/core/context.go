package core

import (
	"strings"
)

// DefaultContextHalfWidth is the number of bytes of surrounding text kept on
// each side of a digit-pattern occurrence in a match preview.
const DefaultContextHalfWidth = 150

// contextSeparator joins the windows of multiple occurrences in one preview.
const contextSeparator = "\n---\n"

var newlineToSpace = strings.NewReplacer("\r", " ", "\n", " ")

// ExtractContext returns the text surrounding every loose-pattern occurrence
// in text, each window clipped to the text bounds and with CR/LF collapsed
// to spaces. It always searches with the loose pattern, independent of which
// pattern produced the classification tier, so a match found only by the
// formatted or unformatted pattern can in principle yield an empty preview.
// A halfWidth <= 0 selects DefaultContextHalfWidth.
func ExtractContext(text string, halfWidth int) string {
	if halfWidth <= 0 {
		halfWidth = DefaultContextHalfWidth
	}

	locs := looseSSN.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return ""
	}

	windows := make([]string, 0, len(locs))
	for _, loc := range locs {
		start := loc[0] - halfWidth
		if start < 0 {
			start = 0
		}
		end := loc[1] + halfWidth
		if end > len(text) {
			end = len(text)
		}
		windows = append(windows, newlineToSpace.Replace(text[start:end]))
	}
	return strings.Join(windows, contextSeparator)
}
