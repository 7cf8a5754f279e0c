// Package noiseregions partitions a rectangular area of a block world into
// labelled regions.
//
// What is it?
//
//	A pipeline that samples a cellular noise field over every column of the
//	area, groups columns with equal quantized noise into buckets, splits each
//	bucket into radius-connected clusters, votes every cluster into a label
//	of a configured taxonomy by the biomes under it, and traces the border of
//	each surviving cluster. The output is a set of polygons ("woodland-3",
//	"grassland-1", ...) ready for a region store.
//
// Layout:
//
//	core/        Cell, Bounds, HeightRange, Polygon and CellSet
//	noise/       deterministic cellular noise (Field, Params, Cellular)
//	bucket/      quantization and the background scan job
//	gridgraph/   radius-connected components over cell sets
//	classify/    taxonomy, exclusions, size filter and majority vote
//	boundary/    8-neighbour border extraction
//	pipeline/    fixed worker pool running one unit per bucket
//	progress/    atomic progress counters and the periodic sampler
//	session/     the operator's state: buckets, polygons and running job
//	biome/       biome catalog, ocean exclusions, synthetic biome map
//	config/      YAML + environment configuration
//	store/       GeoJSON (optionally zstd) polygon export
//	httpapi/     HTTP adapter over a session
//	cmd/noiseregion  CLI: run, serve, config
//
// Quick start:
//
//	noiseregion run --config config.yml --out polygons.geojson.zst
//
// See examples/ for a small end-to-end survey printed as an ASCII map.
package noiseregions
