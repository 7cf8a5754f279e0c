// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/gridgraph"
)

// Sentinel errors for pipeline execution.
var (
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("pipeline: invalid option supplied")

	// ErrAlreadyStarted is returned by a second Start on the same Pipeline.
	ErrAlreadyStarted = errors.New("pipeline: already started")

	// ErrUnitPanic wraps a panic recovered inside a unit.
	ErrUnitPanic = errors.New("pipeline: unit panicked")

	// ErrNilClassifier is returned by New without a classifier.
	ErrNilClassifier = errors.New("pipeline: classifier is nil")
)

// Defaults.
const (
	DefaultWorkers = 10
	DefaultRadius  = 5.0
)

// DefaultHeights is the vertical extent attached to polygons when none is set.
var DefaultHeights = core.HeightRange{Min: -64, Max: 320}

// Option configures a Pipeline. Invalid values are recorded and surfaced as
// ErrOptionViolation by New.
type Option func(*Options)

// Options holds the tunables of a run.
type Options struct {
	// Workers is the pool size.
	Workers int

	// Radius is the clustering hop distance.
	Radius float64

	// Heights is copied onto every polygon.
	Heights core.HeightRange

	// Logger receives per-unit debug lines and the run summary.
	Logger *zap.Logger

	// Extract is forwarded to gridgraph.RadiusComponents. The run context is
	// always appended.
	Extract []gridgraph.Option

	err error
}

// DefaultOptions returns DefaultWorkers, DefaultRadius, DefaultHeights and a
// no-op logger.
func DefaultOptions() Options {
	return Options{
		Workers: DefaultWorkers,
		Radius:  DefaultRadius,
		Heights: DefaultHeights,
		Logger:  zap.NewNop(),
	}
}

// WithWorkers sets the pool size (n ≥ 1).
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: Workers must be at least 1 (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithRadius sets the clustering radius (r ≥ 0).
func WithRadius(r float64) Option {
	return func(o *Options) {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			o.err = fmt.Errorf("%w: Radius must be finite and non-negative (%v)", ErrOptionViolation, r)
			return
		}
		o.Radius = r
	}
}

// WithHeights sets the height range attached to every polygon.
func WithHeights(h core.HeightRange) Option {
	return func(o *Options) {
		if err := h.Validate(); err != nil {
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, err)
			return
		}
		o.Heights = h
	}
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithExtractOptions forwards options to the cluster search.
func WithExtractOptions(opts ...gridgraph.Option) Option {
	return func(o *Options) {
		o.Extract = append(o.Extract, opts...)
	}
}
