package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"bilingual-subtitler/internal/chunk"
	"bilingual-subtitler/internal/config"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/httpx"
	"bilingual-subtitler/internal/logger"
	"bilingual-subtitler/internal/subtitle"
)

// GeminiService implements Service against the Gemini API.
type GeminiService struct {
	client      *genai.Client
	sourceLang  string
	targetLang  string
	totalChunks int
}

// NewGeminiService creates a Gemini-backed translation service. The pooled
// HTTP client is shared across all calls in the run.
func NewGeminiService(ctx context.Context, apiKey, sourceLang, targetLang string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpx.NewDefaultClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:     client,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}, nil
}

// SetTotalChunks tells the service how many chunks the run has, for the
// chunk-position header in prompts.
func (s *GeminiService) SetTotalChunks(n int) {
	s.totalChunks = n
}

// safetySettings disables content blocking; subtitle transcripts regularly
// trip default thresholds.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

// generate performs one model call and returns the raw response text.
func (s *GeminiService) generate(ctx context.Context, model, systemPrompt, userContent string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(float32(config.TranslationTemperature)),
		SafetySettings:    safetySettings,
	}

	resp, err := s.client.Models.GenerateContent(ctx, model, genai.Text(userContent), cfg)
	if err != nil {
		return "", ClassifyError(err)
	}

	out := resp.Text()
	if out == "" {
		return "", &ValidationError{Reason: "model returned an empty response"}
	}
	return out, nil
}

// ExtractGlossary derives a term table from the transcript sample.
func (s *GeminiService) ExtractGlossary(ctx context.Context, sampleLines []string, model string) (*glossary.Glossary, error) {
	logger.Debug("Extracting glossary from %d sample lines with %s", len(sampleLines), model)

	raw, err := s.generate(ctx, model, BuildGlossarySystemPrompt(), BuildGlossaryUserContent(sampleLines))
	if err != nil {
		return nil, err
	}
	return ParseGlossaryResponse(raw)
}

// TranslateChunk translates one chunk and validates the result against it.
func (s *GeminiService) TranslateChunk(ctx context.Context, c chunk.Chunk, g *glossary.Glossary, model string) (subtitle.BilingualList, error) {
	logger.Debug("Translating chunk %d (%d entries) with %s", c.Number, len(c.Entries), model)

	system := BuildTranslationSystemPrompt(g, s.sourceLang, s.targetLang)
	user := BuildChunkUserContent(c.Entries, c.Number, s.totalChunks)

	raw, err := s.generate(ctx, model, system, user)
	if err != nil {
		return nil, err
	}
	return ParseChunkResponse(raw, c)
}
