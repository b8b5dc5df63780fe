package core

import (
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "no markup here",
			expected: "no markup here",
		},
		{
			name:     "simple tag becomes a space",
			input:    "before<br>after",
			expected: "before after",
		},
		{
			name:     "tag with attributes",
			input:    `<a href="https://example.com">link</a>`,
			expected: " link ",
		},
		{
			name:     "adjacent tags each become a space",
			input:    "<p><b>bold</b></p>",
			expected: "  bold  ",
		},
		{
			name:     "digits around tags stay verbatim",
			input:    "SSN: <span>123-45-6789</span>",
			expected: "SSN:  123-45-6789 ",
		},
		{
			name:     "lone angle bracket is kept",
			input:    "a < b and b > a",
			expected: "a  a",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"<html><body>My SSN is 123-45-6789</body></html>",
		"half a tag < here",
		"",
		"<><><>",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
