package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bilingual-subtitler/internal/checkpoint"
	"bilingual-subtitler/internal/chunk"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/resilience"
	"bilingual-subtitler/internal/subtitle"
	"bilingual-subtitler/internal/translation"
	"bilingual-subtitler/models"
)

const testSRT = `1
00:00:01,000 --> 00:00:02,000
Hello world

2
00:00:03,000 --> 00:00:04,000
How are you

3
00:00:05,000 --> 00:00:06,000
Goodbye

4
00:00:07,000 --> 00:00:08,000
See you soon
`

// fakeService scripts per-chunk failures and records every remote call.
type fakeService struct {
	glossaryCalls int
	chunkCalls    map[int]int

	// failures[n] is consumed one error per attempt on chunk n.
	failures map[int][]error
	// glossaryErr, when set, fails every extraction attempt.
	glossaryErr error
}

func newFakeService() *fakeService {
	return &fakeService{
		chunkCalls: make(map[int]int),
		failures:   make(map[int][]error),
	}
}

func (f *fakeService) ExtractGlossary(_ context.Context, sampleLines []string, _ string) (*glossary.Glossary, error) {
	f.glossaryCalls++
	if f.glossaryErr != nil {
		return nil, f.glossaryErr
	}
	g := glossary.New()
	g.Add(glossary.Term{Term: "Hello", Description: "greeting"})
	return g, nil
}

func (f *fakeService) TranslateChunk(_ context.Context, c chunk.Chunk, _ *glossary.Glossary, _ string) (subtitle.BilingualList, error) {
	f.chunkCalls[c.Number]++
	if errs := f.failures[c.Number]; len(errs) > 0 {
		err := errs[0]
		f.failures[c.Number] = errs[1:]
		return nil, err
	}

	results := make(subtitle.BilingualList, len(c.Entries))
	for i, e := range c.Entries {
		results[i] = subtitle.Bilingual{
			Index:       e.Index,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Start:       subtitle.FormatTimestamp(e.StartTime),
			End:         subtitle.FormatTimestamp(e.EndTime),
			Source:      e.Text,
			Translation: "译" + fmt.Sprint(e.Index),
		}
	}
	return results, nil
}

// fastResilience keeps tests instant: one model, a single short retry, and a
// sleeper that never blocks.
func fastResilience() resilience.Options {
	return resilience.Options{
		Models:            []string{"test-model"},
		Schedule:          []time.Duration{time.Millisecond},
		RateLimitCooldown: time.Millisecond,
		FailureThreshold:  3,
		PauseDuration:     time.Millisecond,
		MaxPauseCycles:    1,
		DelayFloor:        time.Millisecond,
		DelayCeiling:      time.Millisecond,
		Sleep:             func(context.Context, time.Duration) error { return nil },
	}
}

func newTestPipeline(t *testing.T, svc translation.Service, chunkSize int) (*Pipeline, *checkpoint.Store, *models.TranslationJob) {
	t.Helper()
	return newTestPipelineWith(t, svc, chunkSize, fastResilience())
}

func newTestPipelineWith(t *testing.T, svc translation.Service, chunkSize int, res resilience.Options) (*Pipeline, *checkpoint.Store, *models.TranslationJob) {
	t.Helper()
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(inputPath, []byte(testSRT), 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	outputJSON := filepath.Join(dir, "talk_bilingual.json")
	store := checkpoint.NewStore(checkpoint.PathFor(outputJSON))

	job := models.NewTranslationJob(inputPath, "en", "zh-Hans")
	job.OutputSRT = filepath.Join(dir, "talk_bilingual.srt")
	job.OutputJSON = outputJSON

	p := NewPipeline(svc, store, PipelineOptions{
		ChunkSize:           chunkSize,
		GlossarySampleLines: 10,
		SourceLang:          "en",
		TargetLang:          "zh-Hans",
		Resilience:          res,
	})
	return p, store, job
}

func TestPipelineRun(t *testing.T) {
	svc := newFakeService()
	p, store, job := newTestPipeline(t, svc, 2)

	if err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if job.Status != models.StatusCompleted {
		t.Errorf("job status = %q, want completed", job.Status)
	}
	if svc.glossaryCalls != 1 {
		t.Errorf("glossary calls = %d, want 1", svc.glossaryCalls)
	}
	if svc.chunkCalls[0] != 1 || svc.chunkCalls[1] != 1 {
		t.Errorf("chunk calls = %v, want one per chunk", svc.chunkCalls)
	}

	srt, err := os.ReadFile(job.OutputSRT)
	if err != nil {
		t.Fatalf("reading output SRT: %v", err)
	}
	for _, want := range []string{"Hello world", "译1", "See you soon", "译4"} {
		if !strings.Contains(string(srt), want) {
			t.Errorf("output SRT missing %q", want)
		}
	}

	// A completed run leaves no checkpoint behind.
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("checkpoint still present after success: %v", err)
	}
}

func TestPipelineResumeSkipsCommittedChunks(t *testing.T) {
	svc := newFakeService()
	p, store, job := newTestPipeline(t, svc, 2)

	// First run fails on chunk 1, chunk 0 commits. Two scripted failures
	// exhaust the single-retry test schedule.
	transient := &translation.TransientError{Err: errors.New("down")}
	svc.failures[1] = []error{transient, transient}

	if err := p.Run(context.Background(), job); err == nil {
		t.Fatal("expected first run to fail")
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("checkpoint should survive the failed run: %v", err)
	}
	firstGlossaryCalls := svc.glossaryCalls
	firstChunk0Calls := svc.chunkCalls[0]

	// Second run resumes: no new glossary or chunk 0 calls.
	p2, _, job2 := resumedPipeline(t, svc, store, job)
	if err := p2.Run(context.Background(), job2); err != nil {
		t.Fatalf("resume run: %v", err)
	}

	if svc.glossaryCalls != firstGlossaryCalls {
		t.Errorf("glossary re-extracted on resume: %d -> %d calls", firstGlossaryCalls, svc.glossaryCalls)
	}
	if svc.chunkCalls[0] != firstChunk0Calls {
		t.Errorf("committed chunk retranslated on resume: %d -> %d calls", firstChunk0Calls, svc.chunkCalls[0])
	}
	if job2.ResumedChunks != 1 {
		t.Errorf("ResumedChunks = %d, want 1", job2.ResumedChunks)
	}
	if job2.Status != models.StatusCompleted {
		t.Errorf("job status = %q, want completed", job2.Status)
	}

	// The resumed output must be identical to an uninterrupted run's; the
	// resumed chunk's timings survived the checkpoint round trip.
	resumed, err := os.ReadFile(job2.OutputSRT)
	if err != nil {
		t.Fatalf("reading resumed SRT: %v", err)
	}
	if strings.Contains(string(resumed), "00:00:00,000 --> 00:00:00,000") {
		t.Errorf("resumed SRT has zeroed timings:\n%s", resumed)
	}

	control, _, controlJob := newTestPipeline(t, newFakeService(), 2)
	if err := control.Run(context.Background(), controlJob); err != nil {
		t.Fatalf("control run: %v", err)
	}
	uninterrupted, err := os.ReadFile(controlJob.OutputSRT)
	if err != nil {
		t.Fatalf("reading control SRT: %v", err)
	}
	if string(resumed) != string(uninterrupted) {
		t.Errorf("resumed output differs from an uninterrupted run:\nresumed:\n%s\nuninterrupted:\n%s", resumed, uninterrupted)
	}
}

// A chunk that burns its whole retry budget escalates the adaptive delay; the
// next chunk has to honor that delay instead of firing immediately.
func TestPipelineDelaysAfterSkippedChunk(t *testing.T) {
	svc := newFakeService()
	transient := &translation.TransientError{Err: errors.New("down")}
	svc.failures[0] = []error{transient, transient}

	var sleeps []time.Duration
	res := fastResilience()
	res.DelayFloor = time.Millisecond
	res.DelayCeiling = 16 * time.Millisecond
	res.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	p, _, job := newTestPipelineWith(t, svc, 2, res)
	if err := p.Run(context.Background(), job); err == nil {
		t.Fatal("expected the run to fail with chunk 0 skipped")
	}
	if svc.chunkCalls[1] != 1 {
		t.Fatalf("chunk 1 calls = %d, want 1", svc.chunkCalls[1])
	}

	// One backoff wait inside chunk 0, the escalated delay before chunk 1,
	// then the relaxed delay after chunk 1 commits with chunk 0 still owed.
	want := []time.Duration{time.Millisecond, 4 * time.Millisecond, time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleeps = %v, want %v", sleeps, want)
		}
	}
}

// resumedPipeline builds a second pipeline over the same store and input.
func resumedPipeline(t *testing.T, svc translation.Service, store *checkpoint.Store, prev *models.TranslationJob) (*Pipeline, *checkpoint.Store, *models.TranslationJob) {
	t.Helper()
	job := models.NewTranslationJob(prev.InputPath, prev.SourceLang, prev.TargetLang)
	job.OutputSRT = prev.OutputSRT
	job.OutputJSON = prev.OutputJSON

	p := NewPipeline(svc, store, PipelineOptions{
		ChunkSize:           2,
		GlossarySampleLines: 10,
		SourceLang:          "en",
		TargetLang:          "zh-Hans",
		Resilience:          fastResilience(),
	})
	return p, store, job
}

func TestPipelineRetriesValidationError(t *testing.T) {
	svc := newFakeService()
	p, _, job := newTestPipeline(t, svc, 2)

	svc.failures[0] = []error{&translation.ValidationError{Reason: "entry count mismatch"}}

	if err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if svc.chunkCalls[0] != 2 {
		t.Errorf("chunk 0 calls = %d, want a retry after the validation failure", svc.chunkCalls[0])
	}
}

func TestPipelineGlossaryFailureIsFatal(t *testing.T) {
	svc := newFakeService()
	svc.glossaryErr = &translation.PermanentError{Err: errors.New("bad key")}
	p, _, job := newTestPipeline(t, svc, 2)

	err := p.Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected glossary failure to fail the run")
	}
	if !strings.Contains(err.Error(), "glossary") {
		t.Errorf("error %q should mention the glossary stage", err)
	}
	if svc.chunkCalls[0] != 0 {
		t.Error("no chunk should be translated after a fatal glossary failure")
	}
	if job.Status != models.StatusFailed {
		t.Errorf("job status = %q, want failed", job.Status)
	}
}

func TestPipelineRunsAreIdempotent(t *testing.T) {
	svc := newFakeService()
	p, store, job := newTestPipeline(t, svc, 3)

	if err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(job.OutputSRT)
	if err != nil {
		t.Fatal(err)
	}

	p2, _, job2 := resumedPipeline(t, svc, store, job)
	if err := p2.Run(context.Background(), job2); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(job.OutputSRT)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("repeat run produced different output")
	}
}

func TestPipelinePermanentErrorAbortsRun(t *testing.T) {
	svc := newFakeService()
	p, store, job := newTestPipeline(t, svc, 2)

	perm := &translation.PermanentError{Err: errors.New("invalid model")}
	svc.failures[0] = []error{perm}

	err := p.Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected the run to fail")
	}
	if !translation.IsPermanent(err) {
		t.Errorf("error = %v, want the permanent error surfaced", err)
	}
	if svc.chunkCalls[1] != 0 {
		t.Error("later chunks should not run after a permanent failure")
	}
	// Glossary extraction succeeded before the failure, so the checkpoint
	// holds it for the next run.
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("checkpoint should survive the failed run: %v", err)
	}
}
