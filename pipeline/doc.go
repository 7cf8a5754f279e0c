// SPDX-License-Identifier: MIT

// Package pipeline turns a bucket map into labelled polygons using a fixed
// pool of workers.
//
// What:
//
//	One unit of work per noise bucket: split the bucket into radius
//	clusters, classify each cluster, extract the border of every survivor.
//	Units run concurrently and never share mutable state; each writes only to
//	its own slot. A coordinating goroutine dispatches the units, waits for the
//	pool to drain and merges the accepted slots into the final Result.
//
// Cancellation:
//
//	Cancel (or cancelling the context given to Start) raises a flag that
//	units poll before they start and again before they are accepted. A unit
//	that observes the flag discards its output and does not count towards
//	progress. Units already accepted are kept: a cancelled Result holds
//	everything completed so far.
//
// Determinism:
//
//	For a fixed bucket map, lookup and taxonomy the polygon set is the same
//	for any worker count. Sequence numbers are allocated during the merge,
//	after sorting by (label, bucket id, first cell).
//
// Errors:
//
//	Per-unit problems (ErrUnclassified, gridgraph.ErrTooManyCells, a panic in
//	the lookup surfaced as ErrUnitPanic) are recorded in Result.Failures and
//	never stop the run. New reports ErrOptionViolation for invalid options;
//	Start reports ErrAlreadyStarted on reuse.
package pipeline
