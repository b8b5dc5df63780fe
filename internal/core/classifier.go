package core

import (
	"regexp"
)

// Classifier assigns a confidence tier to sanitized message text by
// combining keyword presence with digit-pattern specificity. It is a pure
// co-occurrence check: the keyword and the digit pattern may be arbitrarily
// far apart in the same text.
type Classifier struct {
	keywords []*regexp.Regexp
	rules    []PatternRule
}

// NewClassifier creates a classifier over the built-in keyword list and
// pattern rules.
func NewClassifier() *Classifier {
	return &Classifier{
		keywords: keywordPatterns,
		rules:    patternRules,
	}
}

// Classify returns the confidence tier for text. The first keyword in list
// order with a whole-word occurrence anywhere in the text is authoritative:
// the pattern rules are evaluated against the whole text in specificity
// order and the first matching rule's tier is returned. If that keyword
// yields no pattern match the result is TierNone; later keywords are not
// tried. Text with no keyword at all is TierNone regardless of digit
// content. Total over all inputs, including the empty string.
func (c *Classifier) Classify(text string) ConfidenceTier {
	for _, kw := range c.keywords {
		if !kw.MatchString(text) {
			continue
		}
		for _, rule := range c.rules {
			if rule.Pattern.MatchString(text) {
				return rule.Tier
			}
		}
		// First keyword hit decides the outcome, match or not.
		return TierNone
	}
	return TierNone
}
