package models

import (
	"encoding/json"
	"os"
	"path/filepath"

	"bilingual-subtitler/internal/config"
)

// Config holds persistent application settings. Everything here can be
// overridden per run with CLI flags; the file just carries user defaults.
type Config struct {
	// Languages
	DefaultSourceLang string `json:"default_source_lang"`
	DefaultTargetLang string `json:"default_target_lang"`

	// Gemini settings
	PrimaryModel  string `json:"primary_model"`
	FallbackModel string `json:"fallback_model"`

	// Chunking
	ChunkSize int `json:"chunk_size"`

	// Glossary
	ManualGlossaryPath  string `json:"manual_glossary_path"`
	GlossarySampleLines int    `json:"glossary_sample_lines"`

	// Tool paths
	FFmpegPath  string `json:"ffmpeg_path"`
	FFprobePath string `json:"ffprobe_path"`

	// Output
	OutputDirectory string `json:"output_directory"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultSourceLang:   config.DefaultSourceLang,
		DefaultTargetLang:   config.DefaultTargetLang,
		PrimaryModel:        config.DefaultPrimaryModel,
		FallbackModel:       config.DefaultFallbackModel,
		ChunkSize:           config.DefaultChunkSize,
		GlossarySampleLines: config.GlossarySampleLines,
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
		OutputDirectory:     "",
	}
}

func (c *Config) ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "bilingual-subtitler", "config.json")
}

// LoadConfig reads the config file, falling back to defaults when it does
// not exist. Fields missing from the file keep their default values.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	configPath := c.ConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
