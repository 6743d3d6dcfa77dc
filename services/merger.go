// Package services wires the pipeline stages together and talks to external
// tools.
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bilingual-subtitler/internal/checkpoint"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/subtitle"
)

// Artifact is the JSON output written next to the bilingual SRT. It carries
// the full run result in a machine-readable form, glossary included.
type Artifact struct {
	SourceLang string                 `json:"source_lang"`
	TargetLang string                 `json:"target_lang"`
	Glossary   []glossary.Term        `json:"glossary,omitempty"`
	Subtitles  subtitle.BilingualList `json:"subtitles"`
}

// MergeChunks assembles the final entry sequence from a completed run's
// checkpoint state. Every chunk 0..total-1 must be committed; a gap means the
// run is not actually complete and merging would silently drop entries.
func MergeChunks(state *checkpoint.State, total int) (subtitle.BilingualList, error) {
	var merged subtitle.BilingualList
	for num := 0; num < total; num++ {
		results, ok := state.Chunks[num]
		if !ok {
			return nil, fmt.Errorf("chunk %d has no committed result, refusing to merge a partial run", num)
		}
		merged = append(merged, results...)
	}
	return merged, nil
}

// WriteArtifacts writes the bilingual SRT and the JSON artifact.
func WriteArtifacts(srtPath, jsonPath string, entries subtitle.BilingualList, g *glossary.Glossary, sourceLang, targetLang string) error {
	if err := os.MkdirAll(filepath.Dir(srtPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := subtitle.WriteBilingualSRTFile(srtPath, entries); err != nil {
		return fmt.Errorf("failed to write bilingual SRT: %w", err)
	}

	artifact := Artifact{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Subtitles:  entries,
	}
	if g != nil {
		artifact.Glossary = g.Terms
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON artifact: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON artifact: %w", err)
	}
	return nil
}
