// SPDX-License-Identifier: MIT

package classify

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/noiseregions/core"
)

// DefaultMinClusterSize is the smallest cluster that gets classified.
const DefaultMinClusterSize = 2000

// Option configures a Classifier.
type Option func(*Classifier)

// WithExclusions adds categories whose cells are always stripped.
func WithExclusions(cats ...Category) Option {
	return func(c *Classifier) {
		for _, cat := range cats {
			c.exclude[cat] = struct{}{}
		}
	}
}

// WithMinClusterSize sets the minimum surviving size (n > 0).
func WithMinClusterSize(n int) Option {
	return func(c *Classifier) {
		if n <= 0 {
			c.err = fmt.Errorf("%w: minimum cluster size must be positive (%d)", ErrOptionViolation, n)
			return
		}
		c.minSize = n
	}
}

// Classifier votes clusters into taxonomy labels.
type Classifier struct {
	lookup   Lookup
	taxonomy *Taxonomy
	exclude  map[Category]struct{}
	minSize  int
	err      error
}

// New builds a Classifier. lookup and taxonomy are required.
func New(lookup Lookup, taxonomy *Taxonomy, opts ...Option) (*Classifier, error) {
	if lookup == nil {
		return nil, errors.New("classify: lookup is nil")
	}
	if taxonomy == nil {
		return nil, fmt.Errorf("%w: taxonomy is nil", ErrInvalidTaxonomy)
	}
	c := &Classifier{
		lookup:   lookup,
		taxonomy: taxonomy,
		exclude:  make(map[Category]struct{}),
		minSize:  DefaultMinClusterSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// MinClusterSize returns the configured minimum.
func (c *Classifier) MinClusterSize() int { return c.minSize }

// Taxonomy returns the label table.
func (c *Classifier) Taxonomy() *Taxonomy { return c.taxonomy }

// Classify runs exclusion, the size filter and the vote over cells.
//
// It returns (nil, nil) when the cluster is discarded for being smaller than
// the minimum after exclusion, including when every cell was excluded.
// It returns ErrUnclassified when no surviving cell maps to any label.
func (c *Classifier) Classify(cells []core.Cell) (*Result, error) {
	kept := core.NewCellSet(len(cells))
	cats := make([]Category, 0, len(cells))
	for _, cell := range cells {
		if kept.Has(cell) {
			continue
		}
		cat := c.lookup.CategoryOf(cell)
		if _, excluded := c.exclude[cat]; excluded {
			continue
		}
		kept.Add(cell)
		cats = append(cats, cat)
	}
	if kept.Len() < c.minSize {
		return nil, nil
	}

	scores := make([]int, c.taxonomy.Len())
	total := 0
	for _, cat := range cats {
		for _, li := range c.taxonomy.labelsOf(cat) {
			scores[li]++
			total++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %d cells", ErrUnclassified, kept.Len())
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	votes := make(map[string]int, len(scores))
	for i, s := range scores {
		votes[c.taxonomy.labels[i]] = s
	}
	return &Result{
		Label: c.taxonomy.labels[best],
		Score: scores[best],
		Votes: votes,
		Cells: kept,
	}, nil
}
