// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/noiseregions/boundary"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/gridgraph"
)

// region is one classified cluster before sequence numbers are assigned.
type region struct {
	label  string
	score  int
	bucket int
	border []core.Cell
	cells  core.CellSet
}

// slot is the private output area of one unit.
type slot struct {
	accepted  bool
	regions   []region
	failures  []UnitFailure
	discarded int
}

// runUnit processes bucket id. The returned slot is accepted, and progress
// incremented, only if cancellation was not observed.
func (p *Pipeline) runUnit(ctx context.Context, id int) (s slot) {
	if p.cancelled(ctx) {
		return slot{}
	}
	s = p.extract(ctx, id)
	if p.cancelled(ctx) {
		return slot{}
	}
	s.accepted = true
	p.state.Inc()
	return s
}

// extract does the work of a unit. A panic anywhere inside is converted into
// a UnitFailure and the bucket yields no regions.
func (p *Pipeline) extract(ctx context.Context, id int) (s slot) {
	log := p.opts.Logger
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrUnitPanic, r)
			log.Warn("unit panicked", zap.Int("bucket", id), zap.Error(err))
			s = slot{failures: []UnitFailure{{Bucket: id, Err: err}}}
		}
	}()

	cells := p.buckets[id].Sorted()
	if len(cells) == 0 {
		return s
	}
	log.Debug("bucket",
		zap.Int("bucket", id),
		zap.Int("cells", len(cells)),
		zap.Stringer("first", cells[0]),
	)

	opts := append(append([]gridgraph.Option(nil), p.opts.Extract...), gridgraph.WithContext(ctx))
	clusters, err := gridgraph.RadiusComponents(cells, p.opts.Radius, opts...)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Warn("cluster search failed", zap.Int("bucket", id), zap.Error(err))
			s.failures = append(s.failures, UnitFailure{Bucket: id, Err: err})
		}
		return s
	}

	for _, cluster := range clusters {
		if p.cancelled(ctx) {
			return s
		}
		res, err := p.classifier.Classify(cluster)
		if err != nil {
			log.Warn("cluster not classified",
				zap.Int("bucket", id), zap.Int("cells", len(cluster)), zap.Error(err))
			s.failures = append(s.failures, UnitFailure{Bucket: id, Err: err})
			continue
		}
		if res == nil {
			log.Debug("skipping small cluster", zap.Int("bucket", id), zap.Int("cells", len(cluster)))
			s.discarded++
			continue
		}
		s.regions = append(s.regions, region{
			label:  res.Label,
			score:  res.Score,
			bucket: id,
			border: boundary.Border(res.Cells),
			cells:  res.Cells,
		})
	}
	return s
}
