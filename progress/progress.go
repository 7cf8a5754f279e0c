// SPDX-License-Identifier: MIT

// Package progress tracks completion of a long-running job.
//
// State holds a fixed total, an atomically incremented completed count and a
// cancellation flag. Writers call Add/Inc from any goroutine; readers take a
// Snapshot. Watch runs a ticker on its own goroutine and hands snapshots to a
// callback, which is how callers drive external progress rendering.
package progress

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// State is the shared progress record of one job. The zero value is a job of
// total 0; use NewState.
type State struct {
	total     int64
	completed atomic.Int64
	cancelled atomic.Bool
}

// NewState returns a State expecting total units.
func NewState(total int64) *State {
	return &State{total: total}
}

// Total returns the unit count fixed at construction.
func (s *State) Total() int64 { return s.total }

// Add records n more completed units. Negative n is ignored so the count
// never decreases.
func (s *State) Add(n int64) {
	if n > 0 {
		s.completed.Add(n)
	}
}

// Inc records one completed unit.
func (s *State) Inc() { s.completed.Add(1) }

// Cancel raises the cancellation flag. It reports whether this call was the
// one that raised it.
func (s *State) Cancel() bool {
	return s.cancelled.CompareAndSwap(false, true)
}

// Cancelled reports whether Cancel has been called.
func (s *State) Cancelled() bool { return s.cancelled.Load() }

// Snapshot returns a consistent-enough view for reporting.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Total:     s.total,
		Completed: s.completed.Load(),
		Cancelled: s.cancelled.Load(),
	}
}

// Snapshot is a point-in-time copy of a State.
type Snapshot struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Cancelled bool  `json:"cancelled"`
}

// Done reports whether every unit has completed.
func (s Snapshot) Done() bool { return s.Completed >= s.Total }

// Fraction returns Completed/Total clamped to [0, 1]; an empty job is complete.
func (s Snapshot) Fraction() float64 {
	if s.Total <= 0 {
		return 1
	}
	f := float64(s.Completed) / float64(s.Total)
	if f > 1 {
		return 1
	}
	return f
}

// String renders "completed/total (pct%)".
func (s Snapshot) String() string {
	out := fmt.Sprintf("%d/%d (%.1f%%)", s.Completed, s.Total, s.Fraction()*100)
	if s.Cancelled {
		out += " cancelled"
	}
	return out
}

// Watch calls sample every interval and hands each snapshot to fn until ctx
// is done or done is closed; fn then receives one final snapshot. Pass a
// method value such as state.Snapshot or handle.Progress.
// Watch returns immediately; the sampler runs on its own goroutine.
// It panics if interval is not positive.
func Watch(ctx context.Context, sample func() Snapshot, done <-chan struct{}, interval time.Duration, fn func(Snapshot)) {
	if interval <= 0 {
		panic("progress: Watch interval must be positive")
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				fn(sample())
				return
			case <-done:
				fn(sample())
				return
			case <-ticker.C:
				fn(sample())
			}
		}
	}()
}
