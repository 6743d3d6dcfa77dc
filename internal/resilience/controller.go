package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"bilingual-subtitler/internal/config"
	"bilingual-subtitler/internal/logger"
	"bilingual-subtitler/internal/translation"
)

// SleepFunc blocks for d or until ctx is done. Tests inject a recording
// implementation; production uses Sleep.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d, returning early with the context error if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExhaustedError reports that every attempt on every model failed for one
// unit of work. The last per-attempt error is kept for diagnostics.
type ExhaustedError struct {
	Label   string
	LastErr error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all retry attempts exhausted for %s: %v", e.Label, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Action tells the pipeline what to do after a chunk exhausts its retries.
type Action int

const (
	// ActionContinue moves on to the next chunk, leaving this one
	// uncommitted. The run fails at the end but the checkpoint survives.
	ActionContinue Action = iota

	// ActionRetry means a pause-and-reset cycle completed and the same
	// chunk should be attempted again.
	ActionRetry

	// ActionAbort means the pause budget is spent and the run must stop.
	ActionAbort
)

// Options configures a Controller. Zero fields fall back to the defaults in
// the config package.
type Options struct {
	Models            []string
	Schedule          []time.Duration
	RateLimitCooldown time.Duration
	FailureThreshold  int
	PauseDuration     time.Duration
	MaxPauseCycles    int
	DelayFloor        time.Duration
	DelayCeiling      time.Duration
	Sleep             SleepFunc
}

// Controller owns all waiting decisions for a run: per-attempt backoff,
// rate-limit cooldowns, model fallback, the adaptive inter-chunk delay, and
// the run-wide pause triggered by consecutive chunk exhaustions.
//
// It is used from a single goroutine; the pipeline is sequential on purpose,
// since parallel chunk requests would multiply quota pressure.
type Controller struct {
	runID    string
	models   []string
	schedule *scheduleBackOff

	cooldown  time.Duration
	threshold int
	pause     time.Duration
	maxPauses int

	delayFloor   time.Duration
	delayCeiling time.Duration
	delay        time.Duration

	exhaustions int
	pausesUsed  int

	sleep SleepFunc
}

// NewController builds a Controller from opts, filling unset fields with the
// package defaults.
func NewController(opts Options) *Controller {
	if len(opts.Models) == 0 {
		opts.Models = []string{config.DefaultPrimaryModel, config.DefaultFallbackModel}
	}
	if opts.Schedule == nil {
		opts.Schedule = config.BackoffSchedule
	}
	if opts.RateLimitCooldown == 0 {
		opts.RateLimitCooldown = config.RateLimitCooldown
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = config.FailureThreshold
	}
	if opts.PauseDuration == 0 {
		opts.PauseDuration = config.PauseDuration
	}
	if opts.MaxPauseCycles == 0 {
		opts.MaxPauseCycles = config.MaxPauseCycles
	}
	if opts.DelayFloor == 0 {
		opts.DelayFloor = config.DelayFloor
	}
	if opts.DelayCeiling == 0 {
		opts.DelayCeiling = config.DelayCeiling
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}

	return &Controller{
		runID:        uuid.New().String(),
		models:       opts.Models,
		schedule:     newScheduleBackOff(opts.Schedule),
		cooldown:     opts.RateLimitCooldown,
		threshold:    opts.FailureThreshold,
		pause:        opts.PauseDuration,
		maxPauses:    opts.MaxPauseCycles,
		delayFloor:   opts.DelayFloor,
		delayCeiling: opts.DelayCeiling,
		delay:        opts.DelayFloor,
		sleep:        opts.Sleep,
	}
}

// RunID identifies this run in logs.
func (c *Controller) RunID() string { return c.runID }

// Execute runs op with retries and model fallback. Each model gets the full
// backoff schedule; rate-limit errors wait at least the cooldown instead of
// the scheduled delay but still consume an attempt. Permanent errors and
// context cancellation abort immediately. When both models exhaust their
// schedules the caller gets an ExhaustedError.
func (c *Controller) Execute(ctx context.Context, label string, op func(model string) error) error {
	var lastErr error

	for mi, model := range c.models {
		c.schedule.Reset()

		for attempt := 1; attempt <= c.schedule.Attempts(); attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := op(model)
			if err == nil {
				c.relaxDelay()
				return nil
			}
			lastErr = err

			if translation.IsPermanent(err) {
				logger.Error("[run %s] %s: permanent failure on %s: %v", c.runID, label, model, err)
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.escalateDelay()

			wait := c.schedule.NextBackOff()
			if wait == backoff.Stop {
				// The cooldown binds across the model switch too; a fallback
				// attempt fired right after a rate limit would just burn quota.
				if translation.IsRateLimit(err) && mi+1 < len(c.models) {
					logger.Warn("[run %s] %s: rate limited, cooling down %s before the fallback model",
						c.runID, label, c.cooldown)
					if serr := c.sleep(ctx, c.cooldown); serr != nil {
						return serr
					}
				}
				logger.Warn("[run %s] %s: %s exhausted after %d attempts: %v",
					c.runID, label, model, attempt, err)
				break
			}
			if translation.IsRateLimit(err) && wait < c.cooldown {
				wait = c.cooldown
			}

			logger.Warn("[run %s] %s: attempt %d on %s failed (%v), retrying in %s",
				c.runID, label, attempt, model, err, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	return &ExhaustedError{Label: label, LastErr: lastErr}
}

// RecordExhaustion registers one exhausted unit of work and decides how the
// run proceeds. Below the threshold the pipeline skips ahead; at the
// threshold it pauses, resets the counter, and retries the same unit; once
// the pause budget is spent it aborts.
func (c *Controller) RecordExhaustion(ctx context.Context, label string) (Action, error) {
	c.exhaustions++
	if c.exhaustions < c.threshold {
		logger.Warn("[run %s] %s failed all retries (%d/%d consecutive), continuing",
			c.runID, label, c.exhaustions, c.threshold)
		return ActionContinue, nil
	}

	if c.pausesUsed >= c.maxPauses {
		logger.Error("[run %s] %s failed all retries and the pause budget (%d cycles) is spent, aborting",
			c.runID, label, c.maxPauses)
		return ActionAbort, nil
	}

	c.pausesUsed++
	c.exhaustions = 0
	logger.Warn("[run %s] %d consecutive exhaustions, pausing run for %s (cycle %d/%d)",
		c.runID, c.threshold, c.pause, c.pausesUsed, c.maxPauses)
	if err := c.sleep(ctx, c.pause); err != nil {
		return ActionAbort, err
	}
	return ActionRetry, nil
}

// RecordSuccess clears the consecutive-exhaustion counter after a unit of
// work commits.
func (c *Controller) RecordSuccess() {
	c.exhaustions = 0
}

// InterChunkDelay waits the current adaptive delay between chunk requests.
func (c *Controller) InterChunkDelay(ctx context.Context) error {
	return c.sleep(ctx, c.delay)
}

// Delay exposes the current adaptive delay, mostly for logging and tests.
func (c *Controller) Delay() time.Duration { return c.delay }

func (c *Controller) escalateDelay() {
	c.delay *= 2
	if c.delay > c.delayCeiling {
		c.delay = c.delayCeiling
	}
}

func (c *Controller) relaxDelay() {
	c.delay = c.delayFloor
}
