// SPDX-License-Identifier: MIT

package classify

import "fmt"

// Taxonomy is an ordered, validated label table.
type Taxonomy struct {
	labels []string
	// byCategory lists, for each category, the indexes of labels containing it.
	byCategory map[Category][]int
}

// NewTaxonomy validates entries against catalog and freezes their order.
// A nil catalog skips the category-name check.
// Complexity: O(Σ|Categories|).
func NewTaxonomy(entries []Entry, catalog Catalog) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidTaxonomy)
	}
	t := &Taxonomy{
		labels:     make([]string, 0, len(entries)),
		byCategory: make(map[Category][]int),
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Label == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty label", ErrInvalidTaxonomy, i)
		}
		if _, dup := seen[e.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidTaxonomy, e.Label)
		}
		if len(e.Categories) == 0 {
			return nil, fmt.Errorf("%w: label %q has no categories", ErrInvalidTaxonomy, e.Label)
		}
		seen[e.Label] = struct{}{}

		idx := len(t.labels)
		t.labels = append(t.labels, e.Label)
		counted := make(map[Category]struct{}, len(e.Categories))
		for _, c := range e.Categories {
			if catalog != nil && !catalog.Has(c) {
				return nil, fmt.Errorf("%w: %q in label %q", ErrUnknownCategory, c, e.Label)
			}
			if _, dup := counted[c]; dup {
				continue
			}
			counted[c] = struct{}{}
			t.byCategory[c] = append(t.byCategory[c], idx)
		}
	}
	return t, nil
}

// Labels returns the labels in tie-break order.
func (t *Taxonomy) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Len returns the number of labels.
func (t *Taxonomy) Len() int { return len(t.labels) }

// labelsOf returns the label indexes covering c; the slice is shared.
func (t *Taxonomy) labelsOf(c Category) []int {
	return t.byCategory[c]
}
