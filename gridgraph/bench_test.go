package gridgraph_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/gridgraph"
)

// randomCells returns n cells scattered over a side×side square.
func randomCells(n, side int) []core.Cell {
	rng := rand.New(rand.NewSource(42))
	cells := make([]core.Cell, n)
	for i := range cells {
		cells[i] = core.Cell{X: rng.Intn(side), Z: rng.Intn(side)}
	}
	return cells
}

// BenchmarkRadiusComponents_Naive measures the O(n²) path on 4k cells.
func BenchmarkRadiusComponents_Naive(b *testing.B) {
	cells := randomCells(4000, 400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gridgraph.RadiusComponents(cells, 5, gridgraph.WithStrategy(gridgraph.StrategyNaive))
	}
}

// BenchmarkRadiusComponents_Indexed measures the grid index on the same input.
func BenchmarkRadiusComponents_Indexed(b *testing.B) {
	cells := randomCells(4000, 400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gridgraph.RadiusComponents(cells, 5, gridgraph.WithStrategy(gridgraph.StrategyIndexed))
	}
}

// BenchmarkRadiusComponents_Block floods a dense 300×300 block.
func BenchmarkRadiusComponents_Block(b *testing.B) {
	cells := make([]core.Cell, 0, 300*300)
	for x := 0; x < 300; x++ {
		for z := 0; z < 300; z++ {
			cells = append(cells, core.Cell{X: x, Z: z})
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gridgraph.RadiusComponents(cells, 5)
	}
}
