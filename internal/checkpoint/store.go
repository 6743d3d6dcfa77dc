// Package checkpoint persists run progress so an interrupted translation run
// can resume without redoing completed work.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/logger"
	"bilingual-subtitler/internal/subtitle"
)

// CurrentVersion is the on-disk checkpoint format version.
const CurrentVersion = 1

// State is the durable record of a run: the extracted glossary and every
// committed chunk result, plus the signatures that decide whether either is
// still valid for the current run.
type State struct {
	Version int `json:"version"`

	// ChunkSize that produced the committed chunk results. If a later run
	// requests a different size, the results no longer align with the new
	// partition and are discarded; the glossary survives.
	ChunkSize int `json:"chunk_size"`

	// TotalChunks in the partition that produced the results. A mismatch at
	// the same chunk size means a different input now sits behind this output
	// path, so the whole checkpoint is stale.
	TotalChunks int `json:"total_chunks"`

	// GlossaryStrategy identifies how the glossary was extracted (for example
	// "sample:200"). A strategy change invalidates the cached glossary.
	GlossaryStrategy string `json:"glossary_strategy,omitempty"`

	Glossary *glossary.Glossary `json:"glossary,omitempty"`

	Chunks map[int]subtitle.BilingualList `json:"chunks"`
}

// NewState returns an empty state for a fresh run.
func NewState(chunkSize, totalChunks int, glossaryStrategy string) *State {
	return &State{
		Version:          CurrentVersion,
		ChunkSize:        chunkSize,
		TotalChunks:      totalChunks,
		GlossaryStrategy: glossaryStrategy,
		Chunks:           make(map[int]subtitle.BilingualList),
	}
}

// HasGlossary reports whether a glossary has been extracted and cached.
func (st *State) HasGlossary() bool {
	return st.Glossary != nil && !st.Glossary.IsEmpty()
}

// IsCommitted reports whether a chunk's result is already persisted.
func (st *State) IsCommitted(num int) bool {
	_, ok := st.Chunks[num]
	return ok
}

// Commit records a chunk result in memory. The caller must Save before
// starting the next chunk; that ordering is the crash-safety invariant.
func (st *State) Commit(num int, results subtitle.BilingualList) {
	st.Chunks[num] = results
}

// CompletedCount returns how many chunks have committed results.
func (st *State) CompletedCount() int {
	return len(st.Chunks)
}

// Reconcile adapts a loaded state to the current run's parameters. A chunk
// size change discards chunk results but keeps the glossary (re-extracting it
// is the most expensive single call). A chunk count change at the same size
// means a different input behind the same output path, so the glossary goes
// too. A glossary strategy change discards the glossary as well.
func (st *State) Reconcile(chunkSize, totalChunks int, glossaryStrategy string) {
	switch {
	case st.ChunkSize != chunkSize:
		if len(st.Chunks) > 0 {
			logger.Warn("Checkpoint chunk size %d differs from requested %d, discarding %d chunk results",
				st.ChunkSize, chunkSize, len(st.Chunks))
		}
		st.Chunks = make(map[int]subtitle.BilingualList)
	case st.TotalChunks != totalChunks:
		logger.Warn("Checkpoint covers %d chunks but the input splits into %d, discarding checkpoint",
			st.TotalChunks, totalChunks)
		st.Chunks = make(map[int]subtitle.BilingualList)
		st.Glossary = nil
	}
	st.ChunkSize = chunkSize
	st.TotalChunks = totalChunks

	if st.GlossaryStrategy != glossaryStrategy {
		if st.HasGlossary() {
			logger.Warn("Glossary extraction strategy changed (%q -> %q), discarding cached glossary",
				st.GlossaryStrategy, glossaryStrategy)
		}
		st.Glossary = nil
		st.GlossaryStrategy = glossaryStrategy
	}
}

// Store reads and writes checkpoint state at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the given checkpoint path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// PathFor derives the checkpoint path from the run's JSON output path, so a
// resume invocation on the same input finds it automatically.
func PathFor(outputJSON string) string {
	base := strings.TrimSuffix(outputJSON, filepath.Ext(outputJSON))
	return base + "_checkpoint.json"
}

// Path returns the on-disk location of the checkpoint.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted state, or an empty one if the file is absent or
// unreadable. A corrupt checkpoint is never fatal; the run simply starts
// fresh.
func (s *Store) Load(chunkSize, totalChunks int, glossaryStrategy string) *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Checkpoint unreadable, starting fresh: %v", err)
		}
		return NewState(chunkSize, totalChunks, glossaryStrategy)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Checkpoint corrupted, starting fresh: %v", err)
		return NewState(chunkSize, totalChunks, glossaryStrategy)
	}
	if st.Version != CurrentVersion {
		logger.Warn("Checkpoint version %d unsupported, starting fresh", st.Version)
		return NewState(chunkSize, totalChunks, glossaryStrategy)
	}
	if st.Chunks == nil {
		st.Chunks = make(map[int]subtitle.BilingualList)
	}

	logger.Info("Checkpoint found: %d chunks completed, resuming", st.CompletedCount())
	st.Reconcile(chunkSize, totalChunks, glossaryStrategy)
	return &st
}

// Save durably persists the state: written to a temp file in the same
// directory, then renamed over the checkpoint.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.json")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}

// Clear removes the persisted checkpoint after a successful merge.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}
