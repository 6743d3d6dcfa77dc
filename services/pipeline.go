package services

import (
	"context"
	"errors"
	"fmt"

	"bilingual-subtitler/internal/checkpoint"
	"bilingual-subtitler/internal/chunk"
	"bilingual-subtitler/internal/config"
	"bilingual-subtitler/internal/glossary"
	"bilingual-subtitler/internal/logger"
	"bilingual-subtitler/internal/resilience"
	"bilingual-subtitler/internal/subtitle"
	"bilingual-subtitler/internal/translation"
	"bilingual-subtitler/models"
)

type ProgressCallback func(stage string, percent int, message string)

// PipelineOptions configures one translation run.
type PipelineOptions struct {
	ChunkSize           int
	GlossarySampleLines int
	ManualGlossaryPath  string
	SourceLang          string
	TargetLang          string

	// Controller overrides, mainly for tests. Zero values use defaults.
	Resilience resilience.Options
}

// Pipeline runs one subtitle file through glossary extraction, chunked
// translation with checkpointing, and the final merge.
type Pipeline struct {
	svc        translation.Service
	store      *checkpoint.Store
	controller *resilience.Controller
	opts       PipelineOptions
	onProgress ProgressCallback
}

func NewPipeline(svc translation.Service, store *checkpoint.Store, opts PipelineOptions) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = config.DefaultChunkSize
	}
	if opts.GlossarySampleLines <= 0 {
		opts.GlossarySampleLines = config.GlossarySampleLines
	}
	if opts.SourceLang == "" {
		opts.SourceLang = config.DefaultSourceLang
	}
	if opts.TargetLang == "" {
		opts.TargetLang = config.DefaultTargetLang
	}

	return &Pipeline{
		svc:        svc,
		store:      store,
		controller: resilience.NewController(opts.Resilience),
		opts:       opts,
	}
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.onProgress = cb
}

func (p *Pipeline) progress(stage string, percent int, message string) {
	if p.onProgress != nil {
		p.onProgress(stage, percent, message)
	}
}

// glossaryStrategy is the signature stored in the checkpoint. Changing the
// sample size counts as a different extraction strategy and invalidates the
// cached glossary.
func (p *Pipeline) glossaryStrategy() string {
	return fmt.Sprintf("sample:%d", p.opts.GlossarySampleLines)
}

// Run executes the full pipeline for job. On any failure the checkpoint file
// is left in place so the next invocation resumes from the last committed
// chunk.
func (p *Pipeline) Run(ctx context.Context, job *models.TranslationJob) error {
	logger.Info("[run %s] Translating %s (%s -> %s)", p.controller.RunID(), job.FileName, p.opts.SourceLang, p.opts.TargetLang)

	// Stage 1: Parse input.
	job.SetStatus(models.StatusParsing, "Parsing subtitles", 0)
	p.progress("Parsing", 0, "Reading subtitle file...")

	entries, err := subtitleEntries(job.InputPath)
	if err != nil {
		job.Fail(err)
		return err
	}

	chunks, err := chunk.Split(entries, p.opts.ChunkSize)
	if err != nil {
		job.Fail(err)
		return err
	}
	job.TotalChunks = len(chunks)
	logger.Info("[run %s] %d entries in %d chunks of up to %d", p.controller.RunID(), len(entries), len(chunks), p.opts.ChunkSize)

	if tc, ok := p.svc.(interface{ SetTotalChunks(int) }); ok {
		tc.SetTotalChunks(len(chunks))
	}

	state := p.store.Load(p.opts.ChunkSize, len(chunks), p.glossaryStrategy())

	// Stage 2: Glossary. Extraction failure is fatal; translating a long
	// transcript without its term table produces inconsistent output that is
	// expensive to redo.
	job.SetStatus(models.StatusExtracting, "Extracting glossary", 5)
	if err := p.ensureGlossary(ctx, state, entries); err != nil {
		job.Fail(err)
		return fmt.Errorf("glossary extraction failed: %w", err)
	}

	// Stage 3: Translate chunks, committing each result before moving on.
	job.SetStatus(models.StatusTranslating, "Translating", 10)
	if err := p.translateChunks(ctx, job, state, chunks); err != nil {
		job.Fail(err)
		return err
	}

	// Stage 4: Merge and write outputs, then drop the checkpoint.
	job.SetStatus(models.StatusMerging, "Writing output", 95)
	p.progress("Merging", 95, "Writing output files...")

	merged, err := MergeChunks(state, len(chunks))
	if err != nil {
		job.Fail(err)
		return err
	}
	if err := WriteArtifacts(job.OutputSRT, job.OutputJSON, merged, state.Glossary, p.opts.SourceLang, p.opts.TargetLang); err != nil {
		job.Fail(err)
		return err
	}
	if err := p.store.Clear(); err != nil {
		logger.Warn("[run %s] Output written but checkpoint cleanup failed: %v", p.controller.RunID(), err)
	}

	job.Complete(job.OutputSRT, job.OutputJSON)
	logger.Info("[run %s] Complete: %s (%d chunks translated, %d resumed)",
		p.controller.RunID(), job.OutputSRT, job.CompletedChunks, job.ResumedChunks)
	p.progress("Complete", 100, "Translation complete")
	return nil
}

func subtitleEntries(path string) (subtitle.List, error) {
	entries, err := subtitle.ParseSRTFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no subtitle entries found in %s", path)
	}
	return entries, nil
}

// ensureGlossary extracts the glossary unless the checkpoint already carries
// one, then merges manual terms and persists the result.
func (p *Pipeline) ensureGlossary(ctx context.Context, state *checkpoint.State, entries subtitle.List) error {
	if state.HasGlossary() {
		logger.Info("[run %s] Reusing cached glossary (%d terms)", p.controller.RunID(), state.Glossary.Len())
	} else {
		sample := entries.Lines()
		if len(sample) > p.opts.GlossarySampleLines {
			sample = sample[:p.opts.GlossarySampleLines]
		}
		p.progress("Extracting", 5, fmt.Sprintf("Extracting glossary from %d lines...", len(sample)))

		var g *glossary.Glossary
		err := p.controller.Execute(ctx, "glossary extraction", func(model string) error {
			extracted, err := p.svc.ExtractGlossary(ctx, sample, model)
			if err != nil {
				return err
			}
			g = extracted
			return nil
		})
		if err != nil {
			return err
		}
		state.Glossary = g
		logger.Info("[run %s] Extracted %d glossary terms", p.controller.RunID(), g.Len())
	}

	if p.opts.ManualGlossaryPath != "" {
		manual, err := glossary.LoadManualTerms(p.opts.ManualGlossaryPath)
		if err != nil {
			return err
		}
		before := state.Glossary.Len()
		state.Glossary.AppendManual(manual)
		if added := state.Glossary.Len() - before; added > 0 {
			logger.Info("[run %s] Added %d manual glossary terms", p.controller.RunID(), added)
		}
	}

	return p.store.Save(state)
}

// translateChunks walks the chunk sequence. Committed chunks are skipped
// without any remote call. An exhausted chunk is skipped, retried after a
// run-wide pause, or aborts the run, as the controller decides; skipped
// chunks fail the run at the end with the checkpoint intact.
func (p *Pipeline) translateChunks(ctx context.Context, job *models.TranslationJob, state *checkpoint.State, chunks []chunk.Chunk) error {
	var failed []int

	for i := 0; i < len(chunks); {
		c := chunks[i]
		label := fmt.Sprintf("chunk %d", c.Number)

		if state.IsCommitted(c.Number) {
			job.ResumedChunks++
			i++
			continue
		}

		percent := 10 + (85*i)/len(chunks)
		p.progress("Translating", percent, fmt.Sprintf("Chunk %d/%d...", c.Number+1, len(chunks)))

		var results subtitle.BilingualList
		err := p.controller.Execute(ctx, label, func(model string) error {
			r, err := p.svc.TranslateChunk(ctx, c, state.Glossary, model)
			if err != nil {
				return err
			}
			results = r
			return nil
		})
		if err != nil {
			var exhausted *resilience.ExhaustedError
			if !errors.As(err, &exhausted) {
				return err
			}

			action, aerr := p.controller.RecordExhaustion(ctx, label)
			if aerr != nil {
				return aerr
			}
			switch action {
			case resilience.ActionContinue:
				failed = append(failed, c.Number)
				i++
				// The adaptive delay sits at its ceiling right here; the next
				// chunk must not fire immediately into the same conditions.
				if i < len(chunks) {
					if derr := p.controller.InterChunkDelay(ctx); derr != nil {
						return derr
					}
				}
			case resilience.ActionRetry:
				// Same chunk again after the pause.
			case resilience.ActionAbort:
				return fmt.Errorf("aborting run, progress is checkpointed: %w", err)
			}
			continue
		}

		state.Commit(c.Number, results)
		if err := p.store.Save(state); err != nil {
			return fmt.Errorf("chunk %d translated but checkpoint save failed: %w", c.Number, err)
		}
		p.controller.RecordSuccess()
		job.CompletedChunks++
		i++

		if remaining(state, chunks) > 0 {
			if err := p.controller.InterChunkDelay(ctx); err != nil {
				return err
			}
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d chunk(s) failed all retries (%v), rerun to retry them", len(failed), failed)
	}
	return nil
}

func remaining(state *checkpoint.State, chunks []chunk.Chunk) int {
	n := 0
	for _, c := range chunks {
		if !state.IsCommitted(c.Number) {
			n++
		}
	}
	return n
}
