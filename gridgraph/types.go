// SPDX-License-Identifier: MIT

// Package gridgraph defines options, connectivity tables and sentinel errors
// for cluster extraction.
package gridgraph

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for gridgraph operations.
var (
	// ErrBadRadius indicates a negative or NaN adjacency radius.
	ErrBadRadius = errors.New("gridgraph: radius must be a non-negative number")
	// ErrTooManyCells indicates the input exceeds Options.MaxCells.
	ErrTooManyCells = errors.New("gridgraph: too many cells for one search")
	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("gridgraph: invalid option supplied")
)

// DefaultIndexThreshold is the input size above which StrategyAuto switches
// from pairwise distance checks to the grid index.
const DefaultIndexThreshold = 4096

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

var (
	offsets4 = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	offsets8 = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

// NeighborOffsets returns the (dx, dz) table for conn. The slice is shared;
// callers must not modify it.
func NeighborOffsets(conn Connectivity) [][2]int {
	if conn == Conn8 {
		return offsets8
	}
	return offsets4
}

// Strategy selects how candidate neighbours are found.
type Strategy int

const (
	// StrategyAuto picks per input size and radius.
	StrategyAuto Strategy = iota
	// StrategyNaive compares every pair.
	StrategyNaive
	// StrategyIndexed uses the uniform grid index.
	StrategyIndexed
	// StrategyLattice uses 4/8-neighbour lookups; only valid for radius < 2.
	StrategyLattice
)

// Option configures RadiusComponents. Invalid values are recorded and
// surfaced as ErrOptionViolation when the search runs.
type Option func(*Options)

// Options holds the tunables of a component search.
type Options struct {
	// Ctx allows cancellation; checked every 1024 visited cells.
	Ctx context.Context

	// IndexThreshold is the largest input searched naively under StrategyAuto.
	IndexThreshold int

	// MaxCells bounds the input size; 0 disables the bound.
	MaxCells int

	// Strategy forces a neighbour strategy.
	Strategy Strategy

	err error
}

// DefaultOptions returns Background context, DefaultIndexThreshold, no cell
// bound and StrategyAuto.
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		IndexThreshold: DefaultIndexThreshold,
		Strategy:       StrategyAuto,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithIndexThreshold sets the naive/indexed switch point (n ≥ 0).
func WithIndexThreshold(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: IndexThreshold cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.IndexThreshold = n
	}
}

// WithMaxCells bounds the number of cells one search may hold in memory.
// 0 means unbounded.
func WithMaxCells(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxCells cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxCells = n
	}
}

// WithStrategy forces a neighbour strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		if s < StrategyAuto || s > StrategyLattice {
			o.err = fmt.Errorf("%w: unknown strategy %d", ErrOptionViolation, s)
			return
		}
		o.Strategy = s
	}
}
