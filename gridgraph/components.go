// SPDX-License-Identifier: MIT

package gridgraph

import (
	"fmt"
	"math"

	"github.com/katalvlaran/noiseregions/core"
)

// ctxCheckEvery is the number of dequeued cells between cancellation checks.
const ctxCheckEvery = 1024

// neighborhood enumerates unvisited cells adjacent to cell u. Implementations
// mark every cell they hand to push as seen.
type neighborhood interface {
	visit(u int, seen []bool, push func(int))
}

// RadiusComponents partitions cells into components under radius adjacency.
// Returns ErrBadRadius, ErrTooManyCells, ErrOptionViolation or the context
// error; on error no components are returned.
//
// Time:   see package doc per strategy.
// Memory: O(n).
func RadiusComponents(cells []core.Cell, radius float64, opts ...Option) ([][]core.Cell, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrBadRadius, radius)
	}

	uniq := dedupe(cells)
	if o.MaxCells > 0 && len(uniq) > o.MaxCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", ErrTooManyCells, len(uniq), o.MaxCells)
	}

	nb, err := pickNeighborhood(uniq, radius, o)
	if err != nil {
		return nil, err
	}
	return collect(o, uniq, nb)
}

// LatticeComponents partitions cells under strict conn adjacency.
// Complexity: O(n·d) time, O(n) memory.
func LatticeComponents(cells []core.Cell, conn Connectivity, opts ...Option) ([][]core.Cell, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	uniq := dedupe(cells)
	if o.MaxCells > 0 && len(uniq) > o.MaxCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", ErrTooManyCells, len(uniq), o.MaxCells)
	}
	return collect(o, uniq, newLattice(uniq, NeighborOffsets(conn)))
}

func pickNeighborhood(cells []core.Cell, radius float64, o Options) (neighborhood, error) {
	s := o.Strategy
	if s == StrategyAuto {
		switch {
		case radius < 2:
			s = StrategyLattice
		case len(cells) > o.IndexThreshold:
			s = StrategyIndexed
		default:
			s = StrategyNaive
		}
	}

	switch s {
	case StrategyLattice:
		switch {
		case radius >= 2:
			return nil, fmt.Errorf("%w: lattice strategy needs radius < 2, got %v", ErrOptionViolation, radius)
		case radius >= math.Sqrt2:
			return newLattice(cells, offsets8), nil
		case radius >= 1:
			return newLattice(cells, offsets4), nil
		default:
			return newLattice(cells, nil), nil
		}
	case StrategyIndexed:
		return newGridIndex(cells, radius), nil
	default:
		return &pairwise{cells: cells, r2: radius * radius}, nil
	}
}

// collect runs the worklist BFS from every unvisited cell in input order.
func collect(o Options, cells []core.Cell, nb neighborhood) ([][]core.Cell, error) {
	seen := make([]bool, len(cells))
	queue := make([]int, 0, 64)
	var comps [][]core.Cell
	popped := 0

	for start := range cells {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue = append(queue[:0], start)
		var comp []core.Cell

		for qi := 0; qi < len(queue); qi++ {
			popped++
			if popped%ctxCheckEvery == 0 {
				select {
				case <-o.Ctx.Done():
					return nil, o.Ctx.Err()
				default:
				}
			}
			u := queue[qi]
			comp = append(comp, cells[u])
			nb.visit(u, seen, func(v int) { queue = append(queue, v) })
		}
		comps = append(comps, comp)
	}
	return comps, nil
}

// dedupe drops repeated cells, keeping first occurrences in order.
func dedupe(cells []core.Cell) []core.Cell {
	seen := make(map[core.Cell]struct{}, len(cells))
	out := make([]core.Cell, 0, len(cells))
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// pairwise is the O(n²) neighbourhood.
type pairwise struct {
	cells []core.Cell
	r2    float64
}

func (p *pairwise) visit(u int, seen []bool, push func(int)) {
	cu := p.cells[u]
	for j, cj := range p.cells {
		if seen[j] || float64(cu.DistanceSq(cj)) > p.r2 {
			continue
		}
		seen[j] = true
		push(j)
	}
}

// lattice looks up fixed offsets in a position map.
type lattice struct {
	cells   []core.Cell
	pos     map[core.Cell]int
	offsets [][2]int
}

func newLattice(cells []core.Cell, offsets [][2]int) *lattice {
	pos := make(map[core.Cell]int, len(cells))
	for i, c := range cells {
		pos[c] = i
	}
	return &lattice{cells: cells, pos: pos, offsets: offsets}
}

func (l *lattice) visit(u int, seen []bool, push func(int)) {
	cu := l.cells[u]
	for _, d := range l.offsets {
		j, ok := l.pos[core.Cell{X: cu.X + d[0], Z: cu.Z + d[1]}]
		if !ok || seen[j] {
			continue
		}
		seen[j] = true
		push(j)
	}
}
