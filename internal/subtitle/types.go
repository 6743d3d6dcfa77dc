// Package subtitle provides types and utilities for handling subtitles.
package subtitle

import (
	"strings"
	"time"
)

// Subtitle represents a single subtitle entry with timing and text.
// Entries are immutable once read from input; Index defines the total order.
type Subtitle struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Duration returns the duration of this subtitle.
func (s Subtitle) Duration() time.Duration {
	return s.EndTime - s.StartTime
}

// IsEmpty returns true if the subtitle has no text.
func (s Subtitle) IsEmpty() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Bilingual is a translated subtitle entry. Index matches the source entry.
// Source carries the (possibly ASR-corrected) source-language text, Translation
// the target-language text.
type Bilingual struct {
	Index       int           `json:"index"`
	StartTime   time.Duration `json:"-"`
	EndTime     time.Duration `json:"-"`
	Start       string        `json:"start"`
	End         string        `json:"end"`
	Source      string        `json:"source"`
	Translation string        `json:"translation"`
}

// List is a slice of subtitles with utility methods.
type List []Subtitle

// TotalDuration returns the total duration from start to end of all subtitles.
func (l List) TotalDuration() time.Duration {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].EndTime
}

// GetText returns all subtitle text concatenated with spaces.
func (l List) GetText() string {
	var text strings.Builder
	for _, sub := range l {
		if sub.Text != "" {
			text.WriteString(sub.Text)
			text.WriteString(" ")
		}
	}
	return strings.TrimSpace(text.String())
}

// GetTexts returns all subtitle texts as a slice.
func (l List) GetTexts() []string {
	texts := make([]string, len(l))
	for i, sub := range l {
		texts[i] = sub.Text
	}
	return texts
}

// Lines renders the list as numbered transcript lines, one entry per line,
// the form sent to the model for glossary extraction and translation.
func (l List) Lines() []string {
	lines := make([]string, 0, len(l))
	for _, sub := range l {
		if !sub.IsEmpty() {
			lines = append(lines, sub.Text)
		}
	}
	return lines
}

// BilingualList is an ordered slice of translated entries.
type BilingualList []Bilingual

// Indices returns the entry indices in order.
func (l BilingualList) Indices() []int {
	out := make([]int, len(l))
	for i, b := range l {
		out[i] = b.Index
	}
	return out
}
