// SPDX-License-Identifier: MIT

// Package core defines the value types shared by every stage of the
// noise-region pipeline: grid cells, cell sets, scan bounds, height ranges
// and the finished Polygon.
//
// What:
//
//   - Cell is an immutable (X, Z) coordinate; it is comparable and used
//     directly as a map key.
//   - CellSet is a set of cells with deterministic enumeration (Sorted).
//   - Bounds is an inclusive rectangle [MinX,MaxX] × [MinZ,MaxZ].
//   - Polygon is the terminal output: identity, border vertices, the owning
//     cell set and an opaque vertical extent.
//
// Determinism:
//
//	Every enumeration surface (CellSet.Sorted, SortCells) orders cells by X,
//	then Z, so tests and downstream consumers see reproducible output even
//	though sets are backed by Go maps.
//
// Errors:
//
//   - ErrInvalidBounds: a minimum coordinate exceeds its maximum.
//   - ErrInvalidHeights: the height range is inverted.
//
// Complexity:
//
//   - CellSet.Add/Has: O(1) average.
//   - CellSet.Sorted:  O(n log n).
package core
