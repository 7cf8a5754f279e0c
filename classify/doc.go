// SPDX-License-Identifier: MIT

// Package classify assigns a taxonomy label to a cluster of cells by majority
// vote over an external per-cell category lookup.
//
// What:
//
//   - Category is a raw name reported by the lookup ("PLAINS", "OCEAN", ...).
//   - Catalog is the set of names the lookup can report; taxonomy entries are
//     validated against it so a typo fails the run before any work starts.
//   - Taxonomy is an ordered list of labels, each mapping to one or more
//     categories. Order matters: it breaks ties.
//   - Classifier strips excluded cells, drops clusters smaller than the
//     minimum size, then counts one vote per (cell, label) where the cell's
//     category belongs to the label.
//
// Tie-break:
//
//	The label with the strictly highest score wins; among equal scores the
//	label listed first in the taxonomy wins.
//
// Concurrency:
//
//	Taxonomy and Classifier are immutable after construction and safe for
//	concurrent use. Lookup implementations must be safe for concurrent calls.
//
// Errors:
//
//   - ErrUnknownCategory: taxonomy references a name missing from the catalog.
//   - ErrInvalidTaxonomy: empty taxonomy, empty/duplicate label, or a label
//     without categories.
//   - ErrUnclassified:    no surviving cell maps to any label.
//   - ErrOptionViolation: an invalid Option was supplied.
//
// Complexity:
//
//	Classify: O(n·k) time where k is the number of labels a category maps
//	to (usually 1), O(L) memory for the score table.
package classify
