// SPDX-License-Identifier: MIT

// Package bucket quantizes a noise field over a rectangular scan range into
// integer bucket ids, producing the coarse partition of the grid.
//
// Every scanned cell lands in exactly one bucket:
//
//	id = floor(value × Scale) + Offset
//
// With value ∈ [-1, 1] ids stay within [0, 2×Offset]. The scan walks X in the
// outer loop and Z in the inner loop. Progress is reported, and cancellation
// checked, after every row and every few thousand cells within a row.
//
// Complexity: O(W×H) time, O(W×H) memory for the resulting map.
package bucket

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/progress"
)

const (
	// Scale is the number of buckets per unit of noise value.
	Scale = 1_000_000
	// Offset shifts ids so that value -1 maps to 0.
	Offset = 1_000_000
)

// ErrCancelled is returned by Scan when its progress state was cancelled.
var ErrCancelled = errors.New("bucket: scan cancelled")

// Map is the partition: bucket id → cells sharing that id.
type Map map[int]core.CellSet

// ID quantizes a noise value.
func ID(value float64) int {
	return int(math.Floor(value*Scale)) + Offset
}

// IDs returns the bucket ids in ascending order.
func (m Map) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CellCount returns the total number of cells across all buckets.
func (m Map) CellCount() int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}

// Insert adds c to bucket id, creating the bucket on first insertion.
func (m Map) Insert(id int, c core.Cell) {
	s, ok := m[id]
	if !ok {
		s = core.NewCellSet(0)
		m[id] = s
	}
	s.Add(c)
}

// pollEvery is the number of cells between cancellation checks and progress
// updates inside a row.
const pollEvery = 4096

// Scan bucketizes every cell of b. state may be nil; when given, its total
// should be b.Area(). It receives an Add for every completed row and every
// pollEvery cells of a long row, and is polled for cancellation at the same
// points. On cancellation the partial map built so far is returned together
// with ctx.Err() or ErrCancelled.
func Scan(ctx context.Context, field noise.Field, b core.Bounds, state *progress.State) (Map, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	m := make(Map)
	for x := b.MinX; ; x++ {
		if err := checkpoint(ctx, state, 0); err != nil {
			return m, err
		}
		pending := int64(0)
		for z := b.MinZ; ; z++ {
			if pending == pollEvery {
				if err := checkpoint(ctx, state, pending); err != nil {
					return m, err
				}
				pending = 0
			}
			m.Insert(ID(field.Noise(float64(x), float64(z))), core.Cell{X: x, Z: z})
			pending++
			// Compare before incrementing: z++ past math.MaxInt wraps.
			if z == b.MaxZ {
				break
			}
		}
		if state != nil {
			state.Add(pending)
		}
		if x == b.MaxX {
			break
		}
	}
	return m, nil
}

// checkpoint records done cells and reports whether the scan must stop.
func checkpoint(ctx context.Context, state *progress.State, done int64) error {
	if state != nil {
		state.Add(done)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if state != nil && state.Cancelled() {
		return ErrCancelled
	}
	return nil
}
