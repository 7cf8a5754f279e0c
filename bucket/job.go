// SPDX-License-Identifier: MIT

package bucket

import (
	"context"

	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/progress"
)

// Job is a Scan running on a background goroutine.
type Job struct {
	state  *progress.State
	cancel context.CancelFunc
	done   chan struct{}

	// written once before done is closed
	result Map
	err    error
}

// Start validates b and launches Scan on its own goroutine. It never blocks
// on the scan itself.
func Start(ctx context.Context, field noise.Field, b core.Bounds) (*Job, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		state:  progress.NewState(b.Area()),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(j.done)
		defer cancel()
		j.result, j.err = Scan(ctx, field, b, j.state)
	}()
	return j, nil
}

// Progress returns completed-cells / total-cells.
func (j *Job) Progress() progress.Snapshot { return j.state.Snapshot() }

// Cancel stops the scan at the next row boundary.
func (j *Job) Cancel() {
	j.state.Cancel()
	j.cancel()
}

// Done is closed once the scan goroutine exits.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the scan finishes and returns its result.
func (j *Job) Wait() (Map, error) {
	<-j.done
	return j.result, j.err
}
