// SPDX-License-Identifier: MIT

// Package boundary reduces a cluster to the cells that outline it.
//
// A cell is on the border when at least one of its 8 neighbours is missing
// from the cluster. Interior cells add nothing to a polygon outline, so the
// border is the vertex set handed to polygon construction. Single cells and
// one-cell-wide lines have no interior and are returned whole.
//
// All functions are pure over their input set.
//
// Complexity: O(n) time (8 lookups per cell), O(b) output.
package boundary

import (
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/gridgraph"
)

// IsBorder reports whether c has a neighbour outside cells.
func IsBorder(c core.Cell, cells core.CellSet) bool {
	for _, d := range gridgraph.NeighborOffsets(gridgraph.Conn8) {
		if !cells.Has(core.Cell{X: c.X + d[0], Z: c.Z + d[1]}) {
			return true
		}
	}
	return false
}

// Border returns the border cells of cells, sorted by X then Z.
func Border(cells core.CellSet) []core.Cell {
	out := make([]core.Cell, 0, len(cells))
	for c := range cells {
		if IsBorder(c, cells) {
			out = append(out, c)
		}
	}
	core.SortCells(out)
	return out
}

// Interior returns the cells whose 8 neighbours are all present, sorted.
func Interior(cells core.CellSet) []core.Cell {
	var out []core.Cell
	for c := range cells {
		if !IsBorder(c, cells) {
			out = append(out, c)
		}
	}
	core.SortCells(out)
	return out
}
