// SPDX-License-Identifier: MIT

// Package noise produces a deterministic scalar value per grid cell.
//
// What:
//
//   - Field is the minimal contract consumed by the bucketizer:
//     Noise(x, z) returns a value in [-1, 1].
//   - Cellular is a 2-D cellular (Voronoi) field. Every unit cell of the
//     scaled plane owns one feature point, displaced by Jitter; a sample takes
//     the value of its nearest feature point under the hybrid distance
//     (euclidean² + manhattan). The result is piecewise constant, so
//     neighbouring samples tend to share a value: the coarse partition.
//   - Constant and FieldFunc adapt plain values and functions.
//
// Determinism:
//
//	Feature points and values are derived from a SplitMix64 hash of
//	(seed, cell x, cell z). The same Params always produce the same field on
//	every platform; Cellular has no mutable state and is safe for concurrent use.
//
// Options:
//
//   - Params.Seed:      hash seed.
//   - Params.Frequency: coordinate scale, > 0. Smaller means larger regions.
//   - Params.Jitter:    feature point displacement in [0, 1]; 0 is a regular lattice.
//
// Errors:
//
//   - ErrInvalidFrequency: Frequency ≤ 0, NaN or infinite.
//   - ErrInvalidJitter:    Jitter outside [0, 1].
//
// Complexity:
//
//   - Noise: O(1), nine hash evaluations per sample.
package noise
