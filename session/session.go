// SPDX-License-Identifier: MIT

// Package session holds the state one operator works with: the bucket map of
// the last scan and the polygons of the last clustering run.
//
// Both operations are asynchronous. Generate and ClusterAndClassify validate
// their input, launch a background job and return a Handle at once. A job
// publishes its output into the session only if it is still current when it
// finishes; Clear makes every in-flight job stale.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/bucket"
	"github.com/katalvlaran/noiseregions/classify"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/pipeline"
	"github.com/katalvlaran/noiseregions/progress"
)

// Sentinel errors for session misuse.
var (
	// ErrNoBuckets is returned by ClusterAndClassify before any scan finished.
	ErrNoBuckets = errors.New("session: no buckets; run generate first")

	// ErrBusy is returned while another job is still running.
	ErrBusy = errors.New("session: a job is still running")
)

// Handle observes and controls a background job.
type Handle interface {
	Progress() progress.Snapshot
	Cancel()
	Done() <-chan struct{}
}

// Spec describes one clustering run.
type Spec struct {
	Classifier *classify.Classifier
	Options    []pipeline.Option
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is safe for concurrent use.
type Session struct {
	log *zap.Logger

	mu       sync.Mutex
	buckets  bucket.Map
	polygons map[string]core.Polygon
	last     *pipeline.Result
	runID    uuid.UUID
	current  *job
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		log:      zap.NewNop(),
		polygons: make(map[string]core.Polygon),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// job wraps a bucket.Job or pipeline.Pipeline; done closes only after the
// session has taken (or declined) its output.
type job struct {
	inner Handle
	done  chan struct{}
}

func (j *job) Progress() progress.Snapshot { return j.inner.Progress() }
func (j *job) Cancel()                     { j.inner.Cancel() }
func (j *job) Done() <-chan struct{}       { return j.done }

// Generate validates bounds and params and starts scanning. A zero seed is
// replaced by a random one. Buckets from a previous scan stay in place until
// this one finishes.
func (s *Session) Generate(ctx context.Context, b core.Bounds, params noise.Params) (Handle, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if params.Seed == 0 {
		params.Seed = noise.RandomSeed()
	}
	field, err := noise.NewCellular(params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil, ErrBusy
	}
	scan, err := bucket.Start(ctx, field, b)
	if err != nil {
		return nil, err
	}
	j := &job{inner: scan, done: make(chan struct{})}
	s.current = j
	s.log.Info("scan started",
		zap.Stringer("bounds", b),
		zap.Int64("seed", params.Seed),
		zap.Float64("frequency", params.Frequency),
		zap.Int64("cells", b.Area()),
	)

	go func() {
		defer close(j.done)
		m, err := scan.Wait()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.current != j {
			return
		}
		s.current = nil
		s.buckets = m
		s.log.Info("scan finished",
			zap.Int("buckets", len(m)),
			zap.Int("cells", m.CellCount()),
			zap.Error(err),
		)
	}()
	return j, nil
}

// ClusterAndClassify runs the pipeline over the current buckets. On
// completion the polygon set is replaced by the run's polygons, including a
// cancelled run's partial output.
func (s *Session) ClusterAndClassify(ctx context.Context, spec Spec) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil, ErrBusy
	}
	if len(s.buckets) == 0 {
		return nil, ErrNoBuckets
	}
	opts := append([]pipeline.Option{pipeline.WithLogger(s.log)}, spec.Options...)
	p, err := pipeline.New(s.buckets, spec.Classifier, opts...)
	if err != nil {
		return nil, err
	}
	if err = p.Start(ctx); err != nil {
		return nil, err
	}
	runID := uuid.New()
	j := &job{inner: p, done: make(chan struct{})}
	s.current = j
	s.log.Info("clustering started", zap.Stringer("run", runID), zap.Int("buckets", len(s.buckets)))

	go func() {
		defer close(j.done)
		res := p.Wait()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.current != j {
			return
		}
		s.current = nil
		s.polygons = res.Polygons
		s.last = res
		s.runID = runID
	}()
	return j, nil
}

// Polygons returns a deep copy of the current polygon set.
func (s *Session) Polygons() map[string]core.Polygon {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]core.Polygon, len(s.polygons))
	for id, p := range s.polygons {
		out[id] = p.Clone()
	}
	return out
}

// PolygonCount returns the number of published polygons without copying them.
func (s *Session) PolygonCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.polygons)
}

// LastResult returns the result of the last published run, or nil.
func (s *Session) LastResult() *pipeline.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// RunID identifies the run that produced the current polygons; uuid.Nil
// when there is none.
func (s *Session) RunID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// BucketCount returns the number of buckets from the last scan.
func (s *Session) BucketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Current returns the running job, or nil.
func (s *Session) Current() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current
}

// Locate returns the sorted ids of polygons whose cells include c.
func (s *Session) Locate(c core.Cell) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, p := range s.polygons {
		if p.Cells.Has(c) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clear cancels the running job, if any, and drops buckets and polygons.
// It does not wait for the job to stop; its output is discarded.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
	s.buckets = nil
	s.polygons = make(map[string]core.Polygon)
	s.last = nil
	s.runID = uuid.Nil
	s.log.Info("session cleared")
}
