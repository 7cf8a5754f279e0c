// SPDX-License-Identifier: MIT

// Package config loads run settings from a YAML file and NOISEREGIONS_*
// environment variables.
//
// Scalar keys go through viper. The types table is decoded separately from
// the YAML node tree because its key order is the classifier's tie-break
// order and a plain map would lose it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/noiseregions/biome"
	"github.com/katalvlaran/noiseregions/classify"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/pipeline"
)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix is the prefix of environment overrides, e.g. NOISEREGIONS_MAX_THREADS.
const EnvPrefix = "NOISEREGIONS"

// Config is the full settings record.
type Config struct {
	Seed      int64   `mapstructure:"seed"`
	Frequency float64 `mapstructure:"frequency"`
	Jitter    float64 `mapstructure:"jitter"`

	MinX int `mapstructure:"min_x"`
	MaxX int `mapstructure:"max_x"`
	MinZ int `mapstructure:"min_z"`
	MaxZ int `mapstructure:"max_z"`

	MaxThreads       int     `mapstructure:"max_threads"`
	SmallClusterSkip int     `mapstructure:"small_cluster_skip"`
	ClusterRadius    float64 `mapstructure:"cluster_radius"`

	MinY int `mapstructure:"min_y"`
	MaxY int `mapstructure:"max_y"`

	ProgressInterval time.Duration `mapstructure:"progress_interval"`

	// Excluded lists categories stripped before voting.
	Excluded []string `mapstructure:"excluded"`

	// Types is the ordered label table.
	Types []classify.Entry `mapstructure:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	excluded := make([]string, 0, len(biome.Oceans()))
	for _, c := range biome.Oceans() {
		excluded = append(excluded, string(c))
	}
	return Config{
		Frequency:        0.01,
		Jitter:           0.5,
		MinX:             -1000,
		MaxX:             1000,
		MinZ:             -1000,
		MaxZ:             1000,
		MaxThreads:       pipeline.DefaultWorkers,
		SmallClusterSkip: classify.DefaultMinClusterSize,
		ClusterRadius:    pipeline.DefaultRadius,
		MinY:             pipeline.DefaultHeights.Min,
		MaxY:             pipeline.DefaultHeights.Max,
		ProgressInterval: 200 * time.Millisecond,
		Excluded:         excluded,
		Types:            defaultTypes(),
	}
}

func defaultTypes() []classify.Entry {
	return []classify.Entry{
		{Label: "grassland", Categories: []classify.Category{biome.Plains, biome.SunflowerPlains, biome.Meadow, biome.Savanna}},
		{Label: "woodland", Categories: []classify.Category{biome.Forest, biome.BirchForest, biome.DarkForest, biome.FlowerForest, biome.Taiga}},
		{Label: "wetland", Categories: []classify.Category{biome.Swamp, biome.MangroveSwamp, biome.River}},
		{Label: "tundra", Categories: []classify.Category{biome.SnowyPlains, biome.SnowyTaiga, biome.IceSpikes, biome.FrozenRiver}},
		{Label: "arid", Categories: []classify.Category{biome.Desert, biome.Badlands, biome.ErodedBadlands, biome.SavannaPlateau}},
		{Label: "tropics", Categories: []classify.Category{biome.Jungle, biome.SparseJungle, biome.BambooJungle}},
	}
}

// Load reads path (may be empty) over Default, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()
	setDefaults(v, def)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var raw []byte
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		v.SetConfigType("yaml")
		if err = v.ReadConfig(bytes.NewReader(raw)); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg := def
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if raw != nil {
		types, err := decodeTypes(raw)
		if err != nil {
			return Config{}, err
		}
		if types != nil {
			cfg.Types = types
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("seed", c.Seed)
	v.SetDefault("frequency", c.Frequency)
	v.SetDefault("jitter", c.Jitter)
	v.SetDefault("min_x", c.MinX)
	v.SetDefault("max_x", c.MaxX)
	v.SetDefault("min_z", c.MinZ)
	v.SetDefault("max_z", c.MaxZ)
	v.SetDefault("max_threads", c.MaxThreads)
	v.SetDefault("small_cluster_skip", c.SmallClusterSkip)
	v.SetDefault("cluster_radius", c.ClusterRadius)
	v.SetDefault("min_y", c.MinY)
	v.SetDefault("max_y", c.MaxY)
	v.SetDefault("progress_interval", c.ProgressInterval)
	v.SetDefault("excluded", c.Excluded)
}

// decodeTypes returns nil when the document has no types key.
func decodeTypes(raw []byte) ([]classify.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidConfig)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "types" {
			continue
		}
		node := root.Content[i+1]
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: types (line %d) must be a mapping", ErrInvalidConfig, node.Line)
		}
		entries := make([]classify.Entry, 0, len(node.Content)/2)
		for j := 0; j+1 < len(node.Content); j += 2 {
			label, val := node.Content[j].Value, node.Content[j+1]
			var names []string
			switch val.Kind {
			case yaml.ScalarNode:
				names = []string{val.Value}
			case yaml.SequenceNode:
				if err := val.Decode(&names); err != nil {
					return nil, fmt.Errorf("%w: types.%s: %v", ErrInvalidConfig, label, err)
				}
			default:
				return nil, fmt.Errorf("%w: types.%s (line %d) must be a list", ErrInvalidConfig, label, val.Line)
			}
			e := classify.Entry{Label: label}
			for _, n := range names {
				e.Categories = append(e.Categories, classify.ParseCategory(n))
			}
			entries = append(entries, e)
		}
		return entries, nil
	}
	return nil, nil
}

// Validate checks ranges and the taxonomy shape.
func (c Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.NoiseParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Heights().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch {
	case c.MaxThreads < 1:
		return fmt.Errorf("%w: max_threads must be at least 1 (%d)", ErrInvalidConfig, c.MaxThreads)
	case c.SmallClusterSkip < 1:
		return fmt.Errorf("%w: small_cluster_skip must be at least 1 (%d)", ErrInvalidConfig, c.SmallClusterSkip)
	case c.ClusterRadius < 0 || math.IsNaN(c.ClusterRadius) || math.IsInf(c.ClusterRadius, 0):
		return fmt.Errorf("%w: cluster_radius must be finite and non-negative (%v)", ErrInvalidConfig, c.ClusterRadius)
	case c.ProgressInterval <= 0:
		return fmt.Errorf("%w: progress_interval must be positive (%v)", ErrInvalidConfig, c.ProgressInterval)
	case len(c.Types) == 0:
		return fmt.Errorf("%w: types is empty", ErrInvalidConfig)
	}
	return nil
}

// Bounds returns the scan rectangle.
func (c Config) Bounds() core.Bounds {
	return core.Bounds{MinX: c.MinX, MaxX: c.MaxX, MinZ: c.MinZ, MaxZ: c.MaxZ}
}

// NoiseParams returns the field parameters. Seed 0 is left for the caller
// to randomize.
func (c Config) NoiseParams() noise.Params {
	return noise.Params{Seed: c.Seed, Frequency: c.Frequency, Jitter: c.Jitter}
}

// Heights returns the polygon height range.
func (c Config) Heights() core.HeightRange {
	return core.HeightRange{Min: c.MinY, Max: c.MaxY}
}

// Exclusions returns the normalized exclusion set.
func (c Config) Exclusions() []classify.Category {
	out := make([]classify.Category, 0, len(c.Excluded))
	for _, e := range c.Excluded {
		if cat := classify.ParseCategory(e); cat != "" {
			out = append(out, cat)
		}
	}
	return out
}

// Taxonomy validates Types against catalog.
func (c Config) Taxonomy(catalog classify.Catalog) (*classify.Taxonomy, error) {
	return classify.NewTaxonomy(c.Types, catalog)
}

// Classifier builds a classifier over lookup, validating the taxonomy
// against the biome catalog.
func (c Config) Classifier(lookup classify.Lookup) (*classify.Classifier, error) {
	tax, err := c.Taxonomy(biome.Catalog())
	if err != nil {
		return nil, err
	}
	return classify.New(lookup, tax,
		classify.WithExclusions(c.Exclusions()...),
		classify.WithMinClusterSize(c.SmallClusterSkip),
	)
}

// PipelineOptions returns the pool settings.
func (c Config) PipelineOptions(log *zap.Logger) []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithWorkers(c.MaxThreads),
		pipeline.WithRadius(c.ClusterRadius),
		pipeline.WithHeights(c.Heights()),
		pipeline.WithLogger(log),
	}
}

// YAML renders c as a config file Load accepts, types in order.
func (c Config) YAML() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, val any) error {
		var n yaml.Node
		if err := n.Encode(val); err != nil {
			return err
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &n)
		return nil
	}
	fields := []struct {
		key string
		val any
	}{
		{"seed", c.Seed}, {"frequency", c.Frequency}, {"jitter", c.Jitter},
		{"min_x", c.MinX}, {"max_x", c.MaxX}, {"min_z", c.MinZ}, {"max_z", c.MaxZ},
		{"max_threads", c.MaxThreads}, {"small_cluster_skip", c.SmallClusterSkip},
		{"cluster_radius", c.ClusterRadius}, {"min_y", c.MinY}, {"max_y", c.MaxY},
		{"progress_interval", c.ProgressInterval.String()}, {"excluded", c.Excluded},
	}
	for _, f := range fields {
		if err := add(f.key, f.val); err != nil {
			return nil, err
		}
	}

	types := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range c.Types {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, cat := range e.Categories {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(cat)})
		}
		types.Content = append(types.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Label}, seq)
	}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "types"}, types)
	return yaml.Marshal(doc)
}
