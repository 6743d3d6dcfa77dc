package cli

import (
	"testing"

	"bilingual-subtitler/models"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		suffix string
		want   string
	}{
		{"talk.srt", "_bilingual.srt", "talk_bilingual.srt"},
		{"/videos/talk.srt", "_bilingual.json", "/videos/talk_bilingual.json"},
		{"noext", "_bilingual.srt", "noext_bilingual.srt"},
	}
	for _, tt := range tests {
		if got := defaultOutputPath(tt.input, tt.suffix); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestApplyTranslateFlags(t *testing.T) {
	cfg := models.DefaultConfig()
	defer func() { translateFlags.chunkSize = 0; translateFlags.targetLang = "" }()

	translateFlags.chunkSize = 50
	translateFlags.targetLang = "ja"
	applyTranslateFlags(cfg)

	if cfg.ChunkSize != 50 {
		t.Errorf("ChunkSize = %d, want flag override 50", cfg.ChunkSize)
	}
	if cfg.DefaultTargetLang != "ja" {
		t.Errorf("DefaultTargetLang = %q, want flag override", cfg.DefaultTargetLang)
	}
	if cfg.PrimaryModel != "gemini-2.0-flash" {
		t.Errorf("unset flags must not clobber defaults, PrimaryModel = %q", cfg.PrimaryModel)
	}
}
