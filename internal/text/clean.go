// Package text provides cleanup helpers for model output.
package text

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes used across the package.
var (
	codeFenceRegex  = regexp.MustCompile("(?s)```[^\\n]*\\n(.*?)\\n?```")
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// StripCodeFence removes a surrounding markdown code fence if present.
// Models sometimes wrap JSON responses in ```json ... ``` despite being asked
// for raw JSON.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRegex.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the largest {...} substring of s, or the input
// unchanged when no braces are found. Used to salvage a JSON payload from a
// response that carries leading or trailing prose.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
