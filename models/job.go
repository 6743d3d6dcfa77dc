package models

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending     JobStatus = "pending"
	StatusParsing     JobStatus = "parsing"
	StatusExtracting  JobStatus = "extracting"
	StatusTranslating JobStatus = "translating"
	StatusMerging     JobStatus = "merging"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// TranslationJob tracks one subtitle file through the pipeline.
type TranslationJob struct {
	ID           string
	InputPath    string
	OutputSRT    string
	OutputJSON   string
	FileName     string
	Status       JobStatus
	Progress     int // 0-100
	CurrentStage string
	Error        error
	CreatedAt    time.Time
	CompletedAt  *time.Time

	// Translation settings
	SourceLang string
	TargetLang string

	// Run stats
	TotalChunks     int
	CompletedChunks int
	ResumedChunks   int
}

func NewTranslationJob(inputPath, sourceLang, targetLang string) *TranslationJob {
	return &TranslationJob{
		ID:         uuid.New().String(),
		InputPath:  inputPath,
		FileName:   filepath.Base(inputPath),
		Status:     StatusPending,
		Progress:   0,
		CreatedAt:  time.Now(),
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}
}

func (j *TranslationJob) SetStatus(status JobStatus, stage string, progress int) {
	j.Status = status
	j.CurrentStage = stage
	j.Progress = progress
}

func (j *TranslationJob) Complete(outputSRT, outputJSON string) {
	j.Status = StatusCompleted
	j.OutputSRT = outputSRT
	j.OutputJSON = outputJSON
	j.Progress = 100
	now := time.Now()
	j.CompletedAt = &now
}

func (j *TranslationJob) Fail(err error) {
	j.Status = StatusFailed
	j.Error = err
	j.CurrentStage = "Failed"
}

func (j *TranslationJob) StatusText() string {
	switch j.Status {
	case StatusPending:
		return "Ready to translate"
	case StatusParsing:
		return "Parsing subtitles..."
	case StatusExtracting:
		return "Extracting glossary..."
	case StatusTranslating:
		return "Translating..."
	case StatusMerging:
		return "Writing output..."
	case StatusCompleted:
		return "Completed!"
	case StatusFailed:
		if j.Error != nil {
			return "Failed: " + j.Error.Error()
		}
		return "Failed"
	default:
		return string(j.Status)
	}
}
