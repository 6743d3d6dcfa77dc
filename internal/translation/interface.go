// Package translation defines the remote translation service boundary and
// its Gemini implementation.
package translation

import (
	"context"

	"bilingual-subtitler/internal/chunk"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/subtitle"
)

// Service is the single remote boundary the pipeline depends on. Both
// operations may fail with TransientError, RateLimitError, ValidationError,
// or PermanentError; the resilience controller decides what happens next.
type Service interface {
	// ExtractGlossary derives a term table from leading transcript lines.
	ExtractGlossary(ctx context.Context, sampleLines []string, model string) (*glossary.Glossary, error)

	// TranslateChunk translates one chunk's entries, guided by the glossary.
	// The result covers exactly the chunk's entries, in order.
	TranslateChunk(ctx context.Context, c chunk.Chunk, g *glossary.Glossary, model string) (subtitle.BilingualList, error)
}
