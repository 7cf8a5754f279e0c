// SPDX-License-Identifier: MIT

package core

// CellSet is an unordered set of cells. The zero value is not usable; build
// one with NewCellSet or CellSetOf.
type CellSet map[Cell]struct{}

// NewCellSet returns an empty set with room for n cells.
func NewCellSet(n int) CellSet {
	return make(CellSet, n)
}

// CellSetOf builds a set from cells, collapsing duplicates.
func CellSetOf(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c.
func (s CellSet) Add(c Cell) { s[c] = struct{}{} }

// Has reports membership of c.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of cells.
func (s CellSet) Len() int { return len(s) }

// Sorted returns the members ordered by X, then Z.
// Complexity: O(n log n) time, O(n) memory.
func (s CellSet) Sorted() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	SortCells(out)
	return out
}

// Clone returns an independent copy; a nil set clones to nil.
func (s CellSet) Clone() CellSet {
	if s == nil {
		return nil
	}
	out := make(CellSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
