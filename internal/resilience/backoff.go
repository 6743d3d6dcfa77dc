// Package resilience implements retry, fallback, cooldown, and pacing policy
// for the translation pipeline.
package resilience

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// scheduleBackOff steps through a fixed delay schedule and then stops. Unlike
// the exponential policies, every run retries on the exact same cadence, which
// keeps quota usage predictable across resumes.
type scheduleBackOff struct {
	schedule []time.Duration
	next     int
}

var _ backoff.BackOff = (*scheduleBackOff)(nil)

func newScheduleBackOff(schedule []time.Duration) *scheduleBackOff {
	return &scheduleBackOff{schedule: schedule}
}

// NextBackOff returns the next scheduled delay, or backoff.Stop once the
// schedule is exhausted.
func (s *scheduleBackOff) NextBackOff() time.Duration {
	if s.next >= len(s.schedule) {
		return backoff.Stop
	}
	d := s.schedule[s.next]
	s.next++
	return d
}

// Reset restarts the schedule from the first delay.
func (s *scheduleBackOff) Reset() {
	s.next = 0
}

// Attempts returns how many delays the schedule carries. One initial try plus
// one retry per delay gives the per-model attempt count.
func (s *scheduleBackOff) Attempts() int {
	return len(s.schedule) + 1
}
