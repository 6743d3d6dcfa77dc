package translation

import (
	"fmt"
	"strings"

	"bilingual-subtitler/internal/config"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/subtitle"
)

// langNames maps language codes to the names used in prompts.
var langNames = map[string]string{
	"en":      "English",
	"zh-Hans": "Simplified Chinese",
	"zh-Hant": "Traditional Chinese",
	"ja":      "Japanese",
	"ko":      "Korean",
	"de":      "German",
	"fr":      "French",
	"es":      "Spanish",
	"pt":      "Portuguese",
	"ru":      "Russian",
}

// LanguageName returns the prompt-facing name for a language code, falling
// back to the code itself.
func LanguageName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return code
}

// glossaryPrompt instructs the model to extract translation-critical terms
// from a transcript sample.
const glossaryPrompt = `Analyze this subtitle transcript sample. Extract all important keywords that need special attention during translation, including:

- Person names (speakers, people mentioned)
- Organization/company names
- Product/brand names
- Technical terms and jargon
- Words that ASR (speech-to-text) commonly misspells

Return a strictly valid JSON object with this format:
{"keywords": [{"term": "AlphaFold", "description": "Google DeepMind's AI system for protein structure prediction", "correction": "NOT 'alpha fold' or 'alpha-fold'"}]}

Only include terms that genuinely appear or are referenced in the transcript. Do not hallucinate terms.`

// BuildGlossarySystemPrompt returns the system instruction for glossary
// extraction.
func BuildGlossarySystemPrompt() string {
	return glossaryPrompt
}

// BuildGlossaryUserContent renders the transcript sample sent for extraction.
func BuildGlossaryUserContent(sampleLines []string) string {
	return "Transcript Sample:\n" + strings.Join(sampleLines, "\n")
}

// BuildTranslationSystemPrompt returns the system instruction for chunk
// translation, with the glossary table injected when present.
func BuildTranslationSystemPrompt(g *glossary.Glossary, sourceLang, targetLang string) string {
	keywordSection := ""
	if g != nil && !g.IsEmpty() {
		keywordSection = fmt.Sprintf(`
### Global Context & Terminology (CRITICAL)
Use the following keywords to correct ASR errors and ensure consistent translation:
%s
`, g.PromptTable())
	}

	return fmt.Sprintf(`You are a Netflix-level Subtitle Specialist and Linguistic Expert.
Your task is to process raw ASR (speech-to-text) transcripts. The transcripts may contain phonetic errors.
%s
### Processing Rules
1. **ASR Correction**:
   - If a phrase sounds like a keyword in the Context but is spelled wrong, **CORRECT the %[2]s source** first.
   - Do NOT hallucinate new meanings. Only correct if phonetically similar and contextually appropriate.
2. **Cleaning**: Remove filler words (uh, um, you know, like) and source tags.
3. **Segmentation (Netflix Standard)**:
   - Keep one subtitle per input entry; never merge or split entries.
   - **Max %[3]d characters** per line for %[2]s.
   - **Semantic Splitting**: NEVER break a line inside a grammatical unit.
4. **Translation**:
   - Translate into **%[4]s**.
   - Style: Professional Tech/Software Development context.
   - Tone: Natural, concise, matching the speaker's vibe.
5. **Output Format**:
   - Return a strictly valid JSON object under the key "subtitles".
   - One output item per input entry, same order, same index.
   - Format: {"subtitles": [{"index": 1, "start": "MM:SS", "en": "...", "cn": "..."}]}
   - "en" is the corrected %[2]s text, "cn" the %[4]s translation.`,
		keywordSection, LanguageName(sourceLang), config.MaxLineLength, LanguageName(targetLang))
}

// BuildChunkUserContent renders one chunk as indexed transcript lines.
func BuildChunkUserContent(entries subtitle.List, chunkNum, totalChunks int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Raw Transcript Chunk (%d/%d):\n", chunkNum+1, totalChunks)
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. [%s] %s\n", e.Index, subtitle.FormatTimestamp(e.StartTime), e.Text)
	}
	return b.String()
}
