// Package config provides centralized configuration and constants for the bilingual-subtitler application.
package config

import "time"

// Gemini models
const (
	DefaultPrimaryModel  = "gemini-2.0-flash"
	DefaultFallbackModel = "gemini-1.5-flash"
)

// Chunking and glossary extraction
const (
	// DefaultChunkSize is the number of subtitle entries sent per translation request.
	DefaultChunkSize = 300

	// GlossarySampleLines is how many leading transcript lines feed glossary extraction.
	GlossarySampleLines = 200
)

// BackoffSchedule is the per-model retry delay sequence for transient failures.
var BackoffSchedule = []time.Duration{
	5 * time.Second,
	15 * time.Second,
	45 * time.Second,
	90 * time.Second,
	180 * time.Second,
}

// Retry settings
const (
	// RateLimitCooldown is the minimum wait after a quota/rate-limit error.
	// Short backoffs are useless against rate limiting, so these waits replace
	// the schedule delay for that error class.
	RateLimitCooldown = 60 * time.Second

	// FailureThreshold is the number of consecutive chunk exhaustions that
	// triggers a run-wide pause.
	FailureThreshold = 3

	// PauseDuration is how long the whole pipeline sleeps once the failure
	// threshold is reached.
	PauseDuration = 120 * time.Second

	// MaxPauseCycles bounds how many pause-and-reset cycles a run may spend
	// before giving up with the checkpoint intact.
	MaxPauseCycles = 3
)

// Adaptive inter-chunk delay
const (
	DelayFloor   = 2 * time.Second
	DelayCeiling = 60 * time.Second
)

// Subtitle formatting constraints passed to the model
const (
	// MaxLineLength is the Netflix-style per-line character cap for the source language.
	MaxLineLength = 42
)

// LLM call settings
const (
	TranslationTemperature = 0.1
)

// Default languages
const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "zh-Hans"
)

// HTTP client settings
const (
	HTTPTimeout             = 4 * time.Minute
	HTTPMaxIdleConns        = 10
	HTTPMaxIdleConnsPerHost = 10
	HTTPIdleConnTimeout     = 90 * time.Second
)
