package core

import (
	"regexp"
	"unicode"
)

// PatternRule pairs an SSN-shaped regular expression with the confidence
// tier its match implies.
type PatternRule struct {
	Name    string
	Tier    ConfidenceTier
	Pattern *regexp.Regexp
}

var (
	formattedSSN   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	unformattedSSN = regexp.MustCompile(`\b\d{9}\b`)
	looseSSN       = regexp.MustCompile(`\b\d{3}[ .-]?\d{2}[ .-]?\d{4}\b`)
)

// patternRules orders the patterns by specificity. A hyphenated 3-2-4 group
// is stronger evidence than nine bare digits, which in turn is stronger than
// a loosely separated group. Evaluation stops at the first matching rule.
var patternRules = []PatternRule{
	{Name: "formatted", Tier: TierHigh, Pattern: formattedSSN},
	{Name: "unformatted", Tier: TierMedium, Pattern: unformattedSSN},
	{Name: "loose", Tier: TierLow, Pattern: looseSSN},
}

// ssnKeywords is the fixed, ordered list of terms whose presence qualifies a
// digit pattern as a probable SSN. Order matters: the first keyword found in
// a text is authoritative for that text.
var ssnKeywords = []string{
	"social security number",
	"social security",
	"ssn",
	"ss#",
	"ssid",
}

var keywordPatterns = compileKeywords(ssnKeywords)

// compileKeywords builds a case-insensitive whole-word matcher per keyword.
// A word boundary is only anchored against a word rune, so keywords ending
// in punctuation ("ss#") omit the trailing \b.
func compileKeywords(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		expr := `(?i)`
		runes := []rune(w)
		if isWordRune(runes[0]) {
			expr += `\b`
		}
		expr += regexp.QuoteMeta(w)
		if isWordRune(runes[len(runes)-1]) {
			expr += `\b`
		}
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
