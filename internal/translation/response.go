package translation

import (
	"encoding/json"
	"fmt"

	"bilingual-subtitler/internal/chunk"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/subtitle"
	"bilingual-subtitler/internal/text"
)

// Wire formats. The model is asked for raw JSON but occasionally wraps it in
// a code fence or prose, so parsing strips both before decoding.

type wireSubtitle struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	En    string `json:"en"`
	Cn    string `json:"cn"`
}

type wireSubtitleList struct {
	Subtitles []wireSubtitle `json:"subtitles"`
}

type wireKeyword struct {
	Term        string `json:"term"`
	Description string `json:"description"`
	Correction  string `json:"correction"`
}

type wireKeywordList struct {
	Keywords []wireKeyword `json:"keywords"`
}

// ParseGlossaryResponse decodes the keyword-extraction payload into a
// glossary.
func ParseGlossaryResponse(raw string) (*glossary.Glossary, error) {
	payload := text.ExtractJSONObject(text.StripCodeFence(raw))

	var parsed wireKeywordList
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("glossary payload is not valid JSON: %v", err)}
	}

	g := glossary.New()
	for _, kw := range parsed.Keywords {
		g.Add(glossary.Term{
			Term:        text.NormalizeWhitespace(kw.Term),
			Description: text.NormalizeWhitespace(kw.Description),
			Correction:  text.NormalizeWhitespace(kw.Correction),
		})
	}
	return g, nil
}

// ParseChunkResponse decodes and validates one chunk's translation payload.
// The result must cover exactly the chunk's entries in order; any count or
// index mismatch is a ValidationError, since the model may have merged or
// split lines on this attempt and a retry of the same request often yields a
// compliant response.
func ParseChunkResponse(raw string, c chunk.Chunk) (subtitle.BilingualList, error) {
	payload := text.ExtractJSONObject(text.StripCodeFence(raw))

	var parsed wireSubtitleList
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		// Some responses come back as a bare list instead of the object form.
		var bare []wireSubtitle
		if err2 := json.Unmarshal([]byte(text.StripCodeFence(raw)), &bare); err2 != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("chunk payload is not valid JSON: %v", err)}
		}
		parsed.Subtitles = bare
	}

	if len(parsed.Subtitles) != len(c.Entries) {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"chunk %d: got %d translated entries, want %d", c.Number, len(parsed.Subtitles), len(c.Entries))}
	}

	results := make(subtitle.BilingualList, len(c.Entries))
	for i, ws := range parsed.Subtitles {
		src := c.Entries[i]
		if ws.Index != src.Index {
			return nil, &ValidationError{Reason: fmt.Sprintf(
				"chunk %d: entry %d has index %d, want %d", c.Number, i, ws.Index, src.Index)}
		}

		start := subtitle.FormatTimestamp(src.StartTime)
		if ws.Start != "" {
			normalized, err := subtitle.NormalizeTimestamp(ws.Start)
			if err != nil {
				return nil, &ValidationError{Reason: fmt.Sprintf(
					"chunk %d: entry %d: %v", c.Number, src.Index, err)}
			}
			start = normalized
		}

		results[i] = subtitle.Bilingual{
			Index:       src.Index,
			StartTime:   src.StartTime,
			EndTime:     src.EndTime,
			Start:       start,
			End:         subtitle.FormatTimestamp(src.EndTime),
			Source:      text.NormalizeWhitespace(ws.En),
			Translation: text.NormalizeWhitespace(ws.Cn),
		}
	}
	return results, nil
}
