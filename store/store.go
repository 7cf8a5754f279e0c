// SPDX-License-Identifier: MIT

// Package store hands finished polygons to a region store.
//
// Saver is the seam; File is the built-in implementation, writing a GeoJSON
// FeatureCollection with one MultiPoint feature per polygon (its border
// vertices, X as longitude and Z as latitude). Paths ending in ".zst" are
// zstd-compressed. Interior cells are not written; a polygon read back has
// a nil Cells set.
package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/katalvlaran/noiseregions/core"
)

// ErrBadDocument is returned when a file is not a polygon export.
var ErrBadDocument = errors.New("store: malformed polygon document")

// Export is one saved run.
type Export struct {
	RunID    uuid.UUID
	Polygons map[string]core.Polygon
}

// Saver persists an export.
type Saver interface {
	Save(ctx context.Context, e Export) error
}

// Encode writes e as GeoJSON. Features are ordered by polygon id.
func Encode(w io.Writer, e Export) error {
	ids := make([]string, 0, len(e.Polygons))
	for id := range e.Polygons {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fc := geojson.NewFeatureCollection()
	for _, id := range ids {
		fc.Append(feature(e.RunID, e.Polygons[id]))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func feature(run uuid.UUID, p core.Polygon) *geojson.Feature {
	mp := make(orb.MultiPoint, len(p.Vertices))
	for i, v := range p.Vertices {
		mp[i] = orb.Point{float64(v.X), float64(v.Z)}
	}
	f := geojson.NewFeature(mp)
	f.ID = p.ID
	if len(mp) > 0 {
		f.BBox = geojson.NewBBox(mp.Bound())
	}
	f.Properties["id"] = p.ID
	f.Properties["label"] = p.Label
	f.Properties["seq"] = p.Seq
	f.Properties["score"] = p.Score
	f.Properties["bucket"] = p.Bucket
	f.Properties["cell_count"] = p.Cells.Len()
	f.Properties["min_y"] = p.Heights.Min
	f.Properties["max_y"] = p.Heights.Max
	f.Properties["run_id"] = run.String()
	f.Properties["fill"] = Fill(p.Label)
	return f
}

// Fill returns a stable "#rrggbb" colour for label.
func Fill(label string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsv(hue, 0.55, 0.85).Hex()
}

// Decode reads a document produced by Encode.
func Decode(r io.Reader) (Export, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Export{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	out := Export{Polygons: make(map[string]core.Polygon, len(fc.Features))}
	for i, f := range fc.Features {
		mp, ok := f.Geometry.(orb.MultiPoint)
		if !ok {
			return Export{}, fmt.Errorf("%w: feature %d is %T", ErrBadDocument, i, f.Geometry)
		}
		id := f.Properties.MustString("id", "")
		if id == "" {
			return Export{}, fmt.Errorf("%w: feature %d has no id", ErrBadDocument, i)
		}
		if run := f.Properties.MustString("run_id", ""); run != "" {
			if out.RunID, err = uuid.Parse(run); err != nil {
				return Export{}, fmt.Errorf("%w: feature %d: %v", ErrBadDocument, i, err)
			}
		}
		p := core.Polygon{
			ID:     id,
			Label:  f.Properties.MustString("label", ""),
			Seq:    f.Properties.MustInt("seq", 0),
			Score:  f.Properties.MustInt("score", 0),
			Bucket: f.Properties.MustInt("bucket", 0),
			Heights: core.HeightRange{
				Min: f.Properties.MustInt("min_y", 0),
				Max: f.Properties.MustInt("max_y", 0),
			},
			Vertices: make([]core.Cell, len(mp)),
		}
		for j, pt := range mp {
			p.Vertices[j] = core.Cell{X: int(pt.X()), Z: int(pt.Y())}
		}
		out.Polygons[id] = p
	}
	return out, nil
}

// FileMode is the permission of saved exports.
const FileMode os.FileMode = 0o644

// File saves exports to Path.
type File struct {
	Path string
}

// Compressed reports whether Path selects zstd output.
func (f File) Compressed() bool {
	return strings.HasSuffix(f.Path, ".zst")
}

// Save writes e next to Path and renames it into place, so readers never
// see a partial file.
func (f File) Save(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".polygons-*")
	if err != nil {
		return fmt.Errorf("store: failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err = f.write(tmp, e); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	if err = os.Chmod(tmp.Name(), FileMode); err != nil {
		return fmt.Errorf("store: chmod: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}

func (f File) write(file *os.File, e Export) error {
	bufWriter := bufio.NewWriterSize(file, 1024*1024)
	if !f.Compressed() {
		if err := Encode(bufWriter, e); err != nil {
			return err
		}
		return bufWriter.Flush()
	}

	enc, err := zstd.NewWriter(bufWriter, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("store: failed to create zstd writer: %w", err)
	}
	if err = Encode(enc, e); err != nil {
		enc.Close()
		return err
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("store: failed to close encoder: %w", err)
	}
	return bufWriter.Flush()
}

// ReadFile loads an export written by File.
func ReadFile(path string) (Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return Export{}, err
	}
	defer file.Close()

	if !strings.HasSuffix(path, ".zst") {
		return Decode(bufio.NewReader(file))
	}
	dec, err := zstd.NewReader(file)
	if err != nil {
		return Export{}, fmt.Errorf("store: failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	return Decode(dec)
}

// Memory keeps the exports it is given. It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	saved []Export
}

// Save records a deep copy of e.
func (m *Memory) Save(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := Export{RunID: e.RunID, Polygons: make(map[string]core.Polygon, len(e.Polygons))}
	for id, p := range e.Polygons {
		cp.Polygons[id] = p.Clone()
	}
	m.mu.Lock()
	m.saved = append(m.saved, cp)
	m.mu.Unlock()
	return nil
}

// Saved returns every export in save order.
func (m *Memory) Saved() []Export {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Export(nil), m.saved...)
}
