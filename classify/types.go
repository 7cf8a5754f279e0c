// SPDX-License-Identifier: MIT

package classify

import (
	"errors"
	"sort"
	"strings"

	"github.com/katalvlaran/noiseregions/core"
)

// Sentinel errors for classification.
var (
	// ErrUnknownCategory indicates a taxonomy category absent from the catalog.
	ErrUnknownCategory = errors.New("classify: unknown category")

	// ErrInvalidTaxonomy indicates a structurally invalid taxonomy.
	ErrInvalidTaxonomy = errors.New("classify: invalid taxonomy")

	// ErrUnclassified indicates that no cell of a cluster voted for any label.
	ErrUnclassified = errors.New("classify: cluster has no taxonomy votes")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("classify: invalid option supplied")
)

// Category is a raw per-cell category name.
type Category string

// ParseCategory normalizes a configured name (trimmed, upper case).
func ParseCategory(name string) Category {
	return Category(strings.ToUpper(strings.TrimSpace(name)))
}

// Lookup reports the category of a cell. Implementations are called from
// many goroutines at once.
type Lookup interface {
	CategoryOf(c core.Cell) Category
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(c core.Cell) Category

// CategoryOf calls f(c).
func (f LookupFunc) CategoryOf(c core.Cell) Category { return f(c) }

// Catalog is the set of recognized categories.
type Catalog map[Category]struct{}

// NewCatalog builds a catalog from names.
func NewCatalog(names ...Category) Catalog {
	c := make(Catalog, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

// Has reports whether name is recognized.
func (c Catalog) Has(name Category) bool {
	_, ok := c[name]
	return ok
}

// Names returns the catalog sorted.
func (c Catalog) Names() []Category {
	out := make([]Category, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entry is one taxonomy label and the categories it covers.
type Entry struct {
	Label      string
	Categories []Category
}

// Result is the outcome of classifying one cluster.
type Result struct {
	// Label is the winning taxonomy label.
	Label string
	// Score is Label's vote count.
	Score int
	// Votes holds every label's vote count, including zeros.
	Votes map[string]int
	// Cells is the cluster after excluded cells were stripped.
	Cells core.CellSet
}
