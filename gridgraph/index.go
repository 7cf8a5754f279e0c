// SPDX-License-Identifier: MIT

package gridgraph

import (
	"math"

	"github.com/katalvlaran/noiseregions/core"
)

// maxIndexSize caps the index cell edge so huge radii do not overflow int
// arithmetic; any radius that large already joins every realistic input.
const maxIndexSize = 1 << 30

type indexKey struct{ x, z int }

// gridIndex buckets cells by floor(coord / size) with size = ceil(radius),
// so every cell within radius of u lives in the 3×3 window around u's key.
type gridIndex struct {
	cells   []core.Cell
	r2      float64
	size    int
	buckets map[indexKey][]int
}

func newGridIndex(cells []core.Cell, radius float64) *gridIndex {
	size := maxIndexSize
	if radius < maxIndexSize {
		size = int(math.Ceil(radius))
	}
	if size < 1 {
		size = 1
	}
	g := &gridIndex{
		cells:   cells,
		r2:      radius * radius,
		size:    size,
		buckets: make(map[indexKey][]int),
	}
	for i, c := range cells {
		k := g.key(c)
		g.buckets[k] = append(g.buckets[k], i)
	}
	return g
}

func (g *gridIndex) key(c core.Cell) indexKey {
	return indexKey{floorDiv(c.X, g.size), floorDiv(c.Z, g.size)}
}

// visit scans the 3×3 window and compacts seen cells out of each bucket so
// later visits do not re-examine them.
func (g *gridIndex) visit(u int, seen []bool, push func(int)) {
	cu := g.cells[u]
	ku := g.key(cu)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			k := indexKey{ku.x + dx, ku.z + dz}
			list, ok := g.buckets[k]
			if !ok {
				continue
			}
			kept := list[:0]
			for _, j := range list {
				if seen[j] {
					continue
				}
				if float64(cu.DistanceSq(g.cells[j])) <= g.r2 {
					seen[j] = true
					push(j)
					continue
				}
				kept = append(kept, j)
			}
			if len(kept) == 0 {
				delete(g.buckets, k)
			} else {
				g.buckets[k] = kept
			}
		}
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
