// Package glossary holds the term table extracted from a transcript and the
// rules for merging caller-supplied manual terms into it.
package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Term is one glossary entry: a proper noun, organization, product, or piece
// of jargon that needs consistent handling during translation, optionally
// with a note about common ASR misspellings.
type Term struct {
	Term        string `json:"term"`
	Description string `json:"description,omitempty"`
	Correction  string `json:"correction,omitempty"`
}

// Glossary is an ordered term table. Terms are unique; order is the order of
// extraction, with manual terms appended at the end.
type Glossary struct {
	Terms []Term `json:"terms"`
}

// New returns an empty glossary.
func New() *Glossary {
	return &Glossary{}
}

// Len returns the number of terms.
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Terms)
}

// IsEmpty reports whether the glossary holds no terms.
func (g *Glossary) IsEmpty() bool {
	return g.Len() == 0
}

// Has reports whether a term is already present (case-insensitive).
func (g *Glossary) Has(term string) bool {
	for _, t := range g.Terms {
		if strings.EqualFold(t.Term, term) {
			return true
		}
	}
	return false
}

// Add appends a term, skipping duplicates of existing keys. Used when
// building the glossary from extraction output.
func (g *Glossary) Add(t Term) {
	if strings.TrimSpace(t.Term) == "" || g.Has(t.Term) {
		return
	}
	g.Terms = append(g.Terms, t)
}

// AppendManual merges caller-supplied terms into the glossary. Auto-extracted
// output is authoritative: a manual term whose key already exists is dropped.
// Among manual entries themselves, the last occurrence of a key wins.
func (g *Glossary) AppendManual(manual []Term) {
	// Last-wins among the manual entries first.
	deduped := make([]Term, 0, len(manual))
	seen := make(map[string]int)
	for _, t := range manual {
		key := strings.ToLower(strings.TrimSpace(t.Term))
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			deduped[i] = t
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, t)
	}

	for _, t := range deduped {
		if !g.Has(t.Term) {
			g.Terms = append(g.Terms, t)
		}
	}
}

// PromptTable renders the glossary as the bullet list injected into the
// translation system prompt: "- Term (description, correction)".
func (g *Glossary) PromptTable() string {
	if g.IsEmpty() {
		return ""
	}
	var b strings.Builder
	for i, t := range g.Terms {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(t.Term)
		switch {
		case t.Description != "" && t.Correction != "":
			fmt.Fprintf(&b, " (%s, %s)", t.Description, t.Correction)
		case t.Description != "":
			fmt.Fprintf(&b, " (%s)", t.Description)
		case t.Correction != "":
			fmt.Fprintf(&b, " (%s)", t.Correction)
		}
	}
	return b.String()
}

// LoadManualTerms reads caller-supplied terms from a JSON file holding either
// a list of Term objects or a flat term->description map.
func LoadManualTerms(path string) ([]Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}

	var list []Term
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("glossary file %s is neither a term list nor a term map: %w", path, err)
	}

	// Stable order so repeat runs build identical glossaries.
	keys := make([]string, 0, len(flat))
	for term := range flat {
		keys = append(keys, term)
	}
	sort.Strings(keys)

	terms := make([]Term, 0, len(flat))
	for _, term := range keys {
		terms = append(terms, Term{Term: term, Description: flat[term]})
	}
	return terms, nil
}
