package boundary_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/noiseregions/boundary"
	"github.com/katalvlaran/noiseregions/core"
)

func block(x0, z0, w, h int) core.CellSet {
	s := core.NewCellSet(w * h)
	for x := x0; x < x0+w; x++ {
		for z := z0; z < z0+h; z++ {
			s.Add(core.Cell{X: x, Z: z})
		}
	}
	return s
}

// A 3×3 block with the (2,2) corner removed: the cells next to the missing
// corner stay on the border, and the centre (1,1) now touches the gap too.
func TestBorder_MissingCorner(t *testing.T) {
	s := block(0, 0, 3, 3)
	delete(s, core.Cell{X: 2, Z: 2})

	border := boundary.Border(s)
	assert.Contains(t, border, core.Cell{X: 1, Z: 2})
	assert.Contains(t, border, core.Cell{X: 2, Z: 1})
	assert.Len(t, border, 8)
	assert.Empty(t, boundary.Interior(s))
}

func TestBorder_FullBlockExcludesInterior(t *testing.T) {
	s := block(10, -5, 5, 4)
	border := boundary.Border(s)
	interior := boundary.Interior(s)

	assert.Len(t, interior, 3*2)
	assert.Len(t, border, 20-6)
	for _, c := range interior {
		assert.NotContains(t, border, c)
	}
}

func TestBorder_DegenerateShapes(t *testing.T) {
	single := core.CellSetOf(core.Cell{X: 4, Z: 4})
	assert.Equal(t, []core.Cell{{X: 4, Z: 4}}, boundary.Border(single))

	line := block(0, 0, 10, 1)
	assert.Len(t, boundary.Border(line), 10)

	assert.Empty(t, boundary.Border(core.NewCellSet(0)))
}

// TestBorder_Property checks Border ⊆ cluster and the iff-condition on
// random blobs.
func TestBorder_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 25; round++ {
		s := core.NewCellSet(0)
		for i := 0; i < 400; i++ {
			s.Add(core.Cell{X: rng.Intn(25), Z: rng.Intn(25)})
		}
		border := core.CellSetOf(boundary.Border(s)...)
		for c := range border {
			require.True(t, s.Has(c))
		}
		for c := range s {
			missing := false
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					if (dx != 0 || dz != 0) && !s.Has(core.Cell{X: c.X + dx, Z: c.Z + dz}) {
						missing = true
					}
				}
			}
			require.Equal(t, missing, border.Has(c), "cell %v", c)
		}
	}
}

func ExampleBorder() {
	s := block(0, 0, 3, 3)
	fmt.Println(len(boundary.Border(s)), boundary.Interior(s))
	// Output:
	// 8 [1,1]
}
