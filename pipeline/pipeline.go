// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/noiseregions/bucket"
	"github.com/katalvlaran/noiseregions/classify"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/progress"
)

// UnitFailure records a problem confined to one bucket.
type UnitFailure struct {
	Bucket int
	Err    error
}

// Error implements error.
func (f UnitFailure) Error() string {
	return fmt.Sprintf("bucket %d: %v", f.Bucket, f.Err)
}

// Unwrap exposes the cause to errors.Is.
func (f UnitFailure) Unwrap() error { return f.Err }

// Result is the merged outcome of a run.
type Result struct {
	// Polygons is keyed by Polygon.ID.
	Polygons map[string]core.Polygon
	// Failures lists per-bucket problems in bucket order.
	Failures []UnitFailure
	// Discarded counts clusters dropped by the minimum-size filter.
	Discarded int
	// Cancelled is set when the run stopped before every unit was accepted.
	Cancelled bool
	// Elapsed is wall time from Start to merge.
	Elapsed time.Duration
}

// Pipeline is a single clustering and classification run. Use New, then
// Start once.
type Pipeline struct {
	buckets    bucket.Map
	ids        []int
	classifier *classify.Classifier
	opts       Options
	state      *progress.State

	started atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc // guarded by mu
	done    chan struct{}
	result  *Result // written once before done is closed
}

// New validates the options and prepares a run over buckets. The map is
// read-only for the lifetime of the run.
func New(buckets bucket.Map, classifier *classify.Classifier, opts ...Option) (*Pipeline, error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	ids := buckets.IDs()
	return &Pipeline{
		buckets:    buckets,
		ids:        ids,
		classifier: classifier,
		opts:       o,
		state:      progress.NewState(int64(len(ids))),
		cancel:     func() {},
		done:       make(chan struct{}),
	}, nil
}

// Start launches the run and returns immediately.
func (p *Pipeline) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	if p.state.Cancelled() {
		cancel()
	}
	go p.coordinate(ctx, cancel)
	return nil
}

// Progress returns accepted units / total units.
func (p *Pipeline) Progress() progress.Snapshot { return p.state.Snapshot() }

// State exposes the live progress record.
func (p *Pipeline) State() *progress.State { return p.state }

// Cancel requests cooperative cancellation. Safe to call at any time, more
// than once, and before Start.
func (p *Pipeline) Cancel() {
	p.state.Cancel()
	p.mu.Lock()
	p.cancel()
	p.mu.Unlock()
}

// Done is closed once the result is available.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

// Wait blocks until the run finishes.
func (p *Pipeline) Wait() *Result {
	<-p.done
	return p.result
}

// Result returns the merged result, or nil while the run is in flight.
func (p *Pipeline) Result() *Result {
	select {
	case <-p.done:
		return p.result
	default:
		return nil
	}
}

// Run is New + Start + Wait.
func Run(ctx context.Context, buckets bucket.Map, classifier *classify.Classifier, opts ...Option) (*Result, error) {
	p, err := New(buckets, classifier, opts...)
	if err != nil {
		return nil, err
	}
	if err = p.Start(ctx); err != nil {
		return nil, err
	}
	return p.Wait(), nil
}

func (p *Pipeline) coordinate(ctx context.Context, cancel context.CancelFunc) {
	defer close(p.done)
	defer cancel()

	began := time.Now()
	log := p.opts.Logger
	stop := context.AfterFunc(ctx, func() { p.state.Cancel() })

	slots := make([]slot, len(p.ids))
	g := new(errgroup.Group)
	g.SetLimit(p.opts.Workers)
	for i, id := range p.ids {
		if p.cancelled(ctx) {
			break
		}
		g.Go(func() error {
			slots[i] = p.runUnit(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	stop()

	res := p.merge(slots)
	res.Cancelled = p.state.Cancelled() || ctx.Err() != nil
	res.Elapsed = time.Since(began)
	p.result = res

	snap := p.state.Snapshot()
	log.Info("clustering finished",
		zap.Int("buckets", len(p.ids)),
		zap.Int64("accepted", snap.Completed),
		zap.Int("polygons", len(res.Polygons)),
		zap.Int("discarded", res.Discarded),
		zap.Int("failures", len(res.Failures)),
		zap.Bool("cancelled", res.Cancelled),
		zap.Duration("elapsed", res.Elapsed),
	)
}

func (p *Pipeline) cancelled(ctx context.Context) bool {
	return p.state.Cancelled() || ctx.Err() != nil
}

// merge folds accepted slots into a Result. Sequence numbers follow the
// (label, bucket, first cell) order so the outcome does not depend on which
// worker finished first.
func (p *Pipeline) merge(slots []slot) *Result {
	res := &Result{Polygons: make(map[string]core.Polygon)}
	var found []region
	for _, s := range slots {
		if !s.accepted {
			continue
		}
		res.Failures = append(res.Failures, s.failures...)
		res.Discarded += s.discarded
		found = append(found, s.regions...)
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.label != b.label {
			return a.label < b.label
		}
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		return a.border[0].Less(b.border[0])
	})

	seq := make(map[string]int)
	for _, r := range found {
		seq[r.label]++
		id := core.PolygonID(r.label, seq[r.label])
		res.Polygons[id] = core.Polygon{
			ID:       id,
			Label:    r.label,
			Seq:      seq[r.label],
			Score:    r.score,
			Bucket:   r.bucket,
			Vertices: r.border,
			Cells:    r.cells,
			Heights:  p.opts.Heights,
		}
	}
	return res
}
