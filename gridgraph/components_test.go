// File: gridgraph/components_test.go
package gridgraph

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/noiseregions/core"
)

// cellsFrom2D converts a 0/1 picture into cells; row index is Z, column is X.
func cellsFrom2D(grid [][]int) []core.Cell {
	var cells []core.Cell
	for z, row := range grid {
		for x, v := range row {
			if v != 0 {
				cells = append(cells, core.Cell{X: x, Z: z})
			}
		}
	}
	return cells
}

func sizes(comps [][]core.Cell) []int {
	out := make([]int, len(comps))
	for i, c := range comps {
		out[i] = len(c)
	}
	sort.Ints(out)
	return out
}

// TestRadiusComponents_Simple4 uses radius 1 (orthogonal adjacency).
//
//	0 1 1 0
//	1 1 0 0
//	0 0 1 1
//
// Expected: 2 clusters of sizes 4 and 2.
func TestRadiusComponents_Simple4(t *testing.T) {
	cells := cellsFrom2D([][]int{
		{0, 1, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
	})
	comps, err := RadiusComponents(cells, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, sizes(comps))
}

// TestRadiusComponents_Diagonal catches "touching corners" islands: with
// radius √2 all nine cells of the X shape join into one cluster.
func TestRadiusComponents_Diagonal(t *testing.T) {
	cells := cellsFrom2D([][]int{
		{1, 0, 0, 0, 1},
		{0, 1, 0, 1, 0},
		{0, 0, 1, 0, 0},
		{0, 1, 0, 1, 0},
		{1, 0, 0, 0, 1},
	})
	comps, err := RadiusComponents(cells, 1.5)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Len(t, comps[0], 9)

	comps, err = RadiusComponents(cells, 1)
	require.NoError(t, err)
	assert.Len(t, comps, 9)
}

// Two single cells two apart stay separate under radius 0.5.
func TestRadiusComponents_SmallRadiusKeepsApart(t *testing.T) {
	cells := []core.Cell{{X: 0, Z: 0}, {X: 2, Z: 0}}
	for _, s := range []Strategy{StrategyAuto, StrategyNaive, StrategyIndexed, StrategyLattice} {
		comps, err := RadiusComponents(cells, 0.5, WithStrategy(s))
		require.NoError(t, err)
		assert.Len(t, comps, 2, "strategy %d", s)
	}
}

func TestRadiusComponents_GapBridgedByRadius(t *testing.T) {
	cells := []core.Cell{{X: 0, Z: 0}, {X: 5, Z: 0}, {X: 10, Z: 0}, {X: 20, Z: 0}}
	comps, err := RadiusComponents(cells, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, sizes(comps))
	assert.Equal(t, []core.Cell{{X: 0, Z: 0}, {X: 5, Z: 0}, {X: 10, Z: 0}}, comps[0])
}

func TestRadiusComponents_EmptyAndDuplicates(t *testing.T) {
	comps, err := RadiusComponents(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, comps)

	comps, err = RadiusComponents([]core.Cell{{X: 1, Z: 1}, {X: 1, Z: 1}}, 3)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Len(t, comps[0], 1)
}

func TestRadiusComponents_Errors(t *testing.T) {
	cells := []core.Cell{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 0}}

	_, err := RadiusComponents(cells, -1)
	assert.ErrorIs(t, err, ErrBadRadius)

	_, err = RadiusComponents(cells, 2, WithMaxCells(2))
	assert.ErrorIs(t, err, ErrTooManyCells)

	_, err = RadiusComponents(cells, 2, WithIndexThreshold(-1))
	assert.ErrorIs(t, err, ErrOptionViolation)

	_, err = RadiusComponents(cells, 3, WithStrategy(StrategyLattice))
	assert.ErrorIs(t, err, ErrOptionViolation)

	_, err = RadiusComponents(cells, 3, WithStrategy(Strategy(42)))
	assert.ErrorIs(t, err, ErrOptionViolation)
}

func TestRadiusComponents_ContextCancelled(t *testing.T) {
	var cells []core.Cell
	for x := 0; x < 100; x++ {
		for z := 0; z < 50; z++ {
			cells = append(cells, core.Cell{X: x, Z: z})
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RadiusComponents(cells, 3, WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRadiusComponents_LargeContiguousRegion floods a 700×700 block; a
// recursive search would need ~490k frames here.
func TestRadiusComponents_LargeContiguousRegion(t *testing.T) {
	if testing.Short() {
		t.Skip("large flood fill")
	}
	const n = 700
	cells := make([]core.Cell, 0, n*n)
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			cells = append(cells, core.Cell{X: x, Z: z})
		}
	}
	comps, err := RadiusComponents(cells, 5)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Len(t, comps[0], n*n)
}

// TestStrategies_Agree checks completeness, disjointness and the chain
// condition on random sparse inputs, and that every strategy yields the same
// partition.
func TestStrategies_Agree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		var cells []core.Cell
		for i := 0; i < 300; i++ {
			cells = append(cells, core.Cell{X: rng.Intn(80) - 40, Z: rng.Intn(80) - 40})
		}
		for _, radius := range []float64{0.5, 1, 1.5, 2, 3.5, 5} {
			naive, err := RadiusComponents(cells, radius, WithStrategy(StrategyNaive))
			require.NoError(t, err)
			assertPartition(t, cells, naive, radius)

			indexed, err := RadiusComponents(cells, radius, WithStrategy(StrategyIndexed))
			require.NoError(t, err)
			assert.Equal(t, canonical(naive), canonical(indexed), "radius %v", radius)

			auto, err := RadiusComponents(cells, radius, WithIndexThreshold(0))
			require.NoError(t, err)
			assert.Equal(t, canonical(naive), canonical(auto), "radius %v", radius)
		}
	}
}

func TestLatticeComponents_MatchesRadius(t *testing.T) {
	cells := cellsFrom2D([][]int{
		{1, 0, 1, 1},
		{0, 1, 0, 1},
		{1, 0, 0, 1},
	})
	c4, err := LatticeComponents(cells, Conn4)
	require.NoError(t, err)
	r1, err := RadiusComponents(cells, 1, WithStrategy(StrategyNaive))
	require.NoError(t, err)
	assert.Equal(t, canonical(r1), canonical(c4))

	c8, err := LatticeComponents(cells, Conn8)
	require.NoError(t, err)
	r2, err := RadiusComponents(cells, 1.9, WithStrategy(StrategyNaive))
	require.NoError(t, err)
	assert.Equal(t, canonical(r2), canonical(c8))
	assert.Len(t, c8, 1)
}

func TestFloorDiv(t *testing.T) {
	cases := [][3]int{{7, 2, 3}, {-7, 2, -4}, {-8, 2, -4}, {0, 5, 0}, {-1, 5, -1}}
	for _, c := range cases {
		assert.Equal(t, c[2], floorDiv(c[0], c[1]), "floorDiv(%d,%d)", c[0], c[1])
	}
}

func TestNeighborOffsets(t *testing.T) {
	assert.Len(t, NeighborOffsets(Conn4), 4)
	assert.Len(t, NeighborOffsets(Conn8), 8)
}

// assertPartition verifies union == input, disjointness, and that no two
// clusters contain cells within radius of each other (maximality).
func assertPartition(t *testing.T, input []core.Cell, comps [][]core.Cell, radius float64) {
	t.Helper()
	owner := map[core.Cell]int{}
	for i, comp := range comps {
		for _, c := range comp {
			_, dup := owner[c]
			require.False(t, dup, "cell %v appears twice", c)
			owner[c] = i
		}
	}
	require.Equal(t, len(core.CellSetOf(input...)), len(owner))
	for _, c := range input {
		_, ok := owner[c]
		require.True(t, ok)
	}
	r2 := radius * radius
	for a, ia := range owner {
		for b, ib := range owner {
			if ia != ib && float64(a.DistanceSq(b)) <= r2 {
				t.Fatalf("cells %v and %v are within %v but in clusters %d and %d", a, b, radius, ia, ib)
			}
		}
	}
	// Chain condition: every member of a cluster is reachable from its first
	// cell through hops of length ≤ radius inside the cluster.
	for _, comp := range comps {
		reached := map[core.Cell]bool{comp[0]: true}
		frontier := []core.Cell{comp[0]}
		for len(frontier) > 0 {
			cur := frontier[0]
			frontier = frontier[1:]
			for _, c := range comp {
				if !reached[c] && float64(cur.DistanceSq(c)) <= r2 {
					reached[c] = true
					frontier = append(frontier, c)
				}
			}
		}
		require.Len(t, reached, len(comp))
	}
}

// canonical sorts members and clusters so partitions compare structurally.
func canonical(comps [][]core.Cell) [][]core.Cell {
	out := make([][]core.Cell, len(comps))
	for i, c := range comps {
		cp := append([]core.Cell(nil), c...)
		core.SortCells(cp)
		out[i] = cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0].Less(out[j][0]) })
	return out
}
