// SPDX-License-Identifier: MIT

// Package gridgraph treats a set of grid cells as an implicit graph and
// splits it into connected components ("clusters").
//
// What:
//
//   - RadiusComponents: two cells share a component iff a chain of input
//     cells joins them with every hop at euclidean distance ≤ radius.
//   - LatticeComponents: the strict 4- or 8-neighbour special case.
//   - NeighborOffsets: the Conn4/Conn8 offset tables shared with the
//     boundary extractor.
//
// How:
//
//	Every search is a breadth-first traversal over an explicit index
//	worklist; nothing recurses, so a single contiguous region of millions of
//	cells cannot exhaust the goroutine stack. Cells are marked visited when
//	they are pushed, which bounds the worklist by the input size.
//
//	Candidate neighbours come from one of three strategies:
//
//	  - Lattice: radius < 2 reduces to Conn4 (1 ≤ r < √2) or Conn8
//	    (√2 ≤ r < 2) lookups in a hash set; radius < 1 yields singletons.
//	  - Naive: compare against every unvisited cell, O(n²).
//	  - Indexed: a uniform grid keyed by floor(coord / ceil(r)); only the 3×3
//	    surrounding index cells are scanned and visited cells are compacted
//	    out of their index cell as they are met.
//
//	StrategyAuto picks Lattice for small radii, otherwise Naive up to
//	Options.IndexThreshold cells and Indexed above it.
//
// Determinism:
//
//	Components are emitted in order of their first input cell; members appear
//	in BFS order. Duplicate input cells are collapsed.
//
// Complexity:
//
//   - Lattice: O(n·d) time, d = 4 or 8.
//   - Naive:   O(n²) time.
//   - Indexed: O(n·k) time, k = cells per 3×3 index window.
//   - Memory:  O(n) for every strategy.
//
// Errors:
//
//   - ErrBadRadius:       radius is negative or NaN.
//   - ErrTooManyCells:    input exceeds Options.MaxCells.
//   - ErrOptionViolation: an invalid Option was supplied.
package gridgraph
