// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for core value validation.
var (
	// ErrInvalidBounds indicates MinX > MaxX or MinZ > MaxZ.
	ErrInvalidBounds = errors.New("core: invalid bounds")

	// ErrInvalidHeights indicates Min > Max in a HeightRange.
	ErrInvalidHeights = errors.New("core: invalid height range")
)

// Cell is a single integer grid coordinate.
type Cell struct {
	X, Z int
}

// String renders the cell as "x,z".
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Z)
}

// DistanceSq returns the squared euclidean distance between c and o.
// Complexity: O(1).
func (c Cell) DistanceSq(o Cell) int64 {
	dx := int64(c.X - o.X)
	dz := int64(c.Z - o.Z)
	return dx*dx + dz*dz
}

// Less orders cells by X, then Z.
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Z < o.Z
}

// SortCells sorts cells in place by X, then Z.
// Complexity: O(n log n).
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
}

// Bounds is an inclusive scan rectangle.
type Bounds struct {
	MinX, MaxX int
	MinZ, MaxZ int
}

// Validate returns ErrInvalidBounds (wrapped with the offending axis) if a
// minimum exceeds its maximum.
func (b Bounds) Validate() error {
	if b.MinX > b.MaxX {
		return fmt.Errorf("%w: min_x %d > max_x %d", ErrInvalidBounds, b.MinX, b.MaxX)
	}
	if b.MinZ > b.MaxZ {
		return fmt.Errorf("%w: min_z %d > max_z %d", ErrInvalidBounds, b.MinZ, b.MaxZ)
	}
	return nil
}

// Width is the number of columns along X.
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Depth is the number of rows along Z.
func (b Bounds) Depth() int { return b.MaxZ - b.MinZ + 1 }

// Area returns the number of cells covered by b. Bounds must be valid.
func (b Bounds) Area() int64 {
	return int64(b.Width()) * int64(b.Depth())
}

// String renders b as "[minX..maxX]x[minZ..maxZ]".
func (b Bounds) String() string {
	return fmt.Sprintf("[%d..%d]x[%d..%d]", b.MinX, b.MaxX, b.MinZ, b.MaxZ)
}

// Contains reports whether c lies inside b.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Z >= b.MinZ && c.Z <= b.MaxZ
}

// HeightRange is the vertical extent attached to a Polygon. It is carried
// through unchanged and never participates in 2-D connectivity.
type HeightRange struct {
	Min, Max int
}

// Validate returns ErrInvalidHeights when Min > Max.
func (h HeightRange) Validate() error {
	if h.Min > h.Max {
		return fmt.Errorf("%w: %d > %d", ErrInvalidHeights, h.Min, h.Max)
	}
	return nil
}

// Polygon is a classified cluster ready for hand-off to a region store.
type Polygon struct {
	// ID is "<Label>-<Seq>", unique within one pipeline result.
	ID string
	// Label is the winning taxonomy label.
	Label string
	// Seq is the 1-based sequence number of this polygon within Label.
	Seq int
	// Score is the vote count of Label.
	Score int
	// Bucket is the noise bucket the cluster was extracted from.
	Bucket int
	// Vertices is the border cell set, sorted by X then Z.
	Vertices []Cell
	// Cells is every surviving cell of the cluster.
	Cells CellSet
	// Heights is opaque vertical metadata.
	Heights HeightRange
}

// PolygonID composes the identity of the seq-th polygon labelled label.
func PolygonID(label string, seq int) string {
	return fmt.Sprintf("%s-%d", label, seq)
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	out := p
	out.Vertices = append([]Cell(nil), p.Vertices...)
	out.Cells = p.Cells.Clone()
	return out
}
