// Package chunk partitions an ordered subtitle sequence into fixed-size,
// order-preserving batches for translation.
package chunk

import (
	"fmt"

	"bilingual-subtitler/internal/subtitle"
)

// Chunk is a contiguous slice of entries processed as one remote request.
// Chunks are numbered 0..K-1 and together partition the full sequence with no
// gaps or overlaps.
type Chunk struct {
	Number  int
	Entries subtitle.List
}

// Split partitions entries into ordered chunks of at most size entries each;
// the last chunk may be shorter. The partition is deterministic: the same
// input and size always produce the same chunk numbering, which is what makes
// checkpoint resume safe.
func Split(entries subtitle.List, size int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}

	chunks := make([]Chunk, 0, (len(entries)+size-1)/size)
	for i := 0; i < len(entries); i += size {
		end := i + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, Chunk{
			Number:  len(chunks),
			Entries: entries[i:end],
		})
	}

	if err := Verify(chunks, entries); err != nil {
		return nil, err
	}
	return chunks, nil
}

// Verify checks the partition invariant: concatenating all chunks' entries in
// chunk order reproduces the original sequence exactly.
func Verify(chunks []Chunk, entries subtitle.List) error {
	pos := 0
	for i, c := range chunks {
		if c.Number != i {
			return fmt.Errorf("chunk %d numbered %d", i, c.Number)
		}
		for _, e := range c.Entries {
			if pos >= len(entries) {
				return fmt.Errorf("chunk %d extends past the entry sequence", i)
			}
			if e != entries[pos] {
				return fmt.Errorf("chunk %d entry %d does not match source entry %d", i, e.Index, entries[pos].Index)
			}
			pos++
		}
	}
	if pos != len(entries) {
		return fmt.Errorf("partition covers %d of %d entries", pos, len(entries))
	}
	return nil
}
