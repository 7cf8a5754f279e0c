// SPDX-License-Identifier: MIT

// Package biome supplies the category vocabulary of a block world and a
// deterministic stand-in for the world's per-column biome service.
//
// Catalog lists every biome name a world can report; taxonomies from
// configuration are validated against it. Oceans is the default exclusion
// set: water columns never anchor a region. Map derives a biome per cell
// from two cellular noise layers (temperature and humidity), which is
// enough to exercise classification end to end without a live world.
package biome

import (
	"github.com/katalvlaran/noiseregions/classify"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
)

// Biome names.
const (
	Ocean             classify.Category = "OCEAN"
	DeepOcean         classify.Category = "DEEP_OCEAN"
	ColdOcean         classify.Category = "COLD_OCEAN"
	DeepColdOcean     classify.Category = "DEEP_COLD_OCEAN"
	FrozenOcean       classify.Category = "FROZEN_OCEAN"
	DeepFrozenOcean   classify.Category = "DEEP_FROZEN_OCEAN"
	LukewarmOcean     classify.Category = "LUKEWARM_OCEAN"
	DeepLukewarmOcean classify.Category = "DEEP_LUKEWARM_OCEAN"
	WarmOcean         classify.Category = "WARM_OCEAN"
	River             classify.Category = "RIVER"
	FrozenRiver       classify.Category = "FROZEN_RIVER"
	Beach             classify.Category = "BEACH"
	SnowyBeach        classify.Category = "SNOWY_BEACH"
	StonyShore        classify.Category = "STONY_SHORE"
	Plains            classify.Category = "PLAINS"
	SunflowerPlains   classify.Category = "SUNFLOWER_PLAINS"
	SnowyPlains       classify.Category = "SNOWY_PLAINS"
	IceSpikes         classify.Category = "ICE_SPIKES"
	Desert            classify.Category = "DESERT"
	Swamp             classify.Category = "SWAMP"
	MangroveSwamp     classify.Category = "MANGROVE_SWAMP"
	Forest            classify.Category = "FOREST"
	FlowerForest      classify.Category = "FLOWER_FOREST"
	BirchForest       classify.Category = "BIRCH_FOREST"
	DarkForest        classify.Category = "DARK_FOREST"
	OldGrowthPine     classify.Category = "OLD_GROWTH_PINE_TAIGA"
	Taiga             classify.Category = "TAIGA"
	SnowyTaiga        classify.Category = "SNOWY_TAIGA"
	Savanna           classify.Category = "SAVANNA"
	SavannaPlateau    classify.Category = "SAVANNA_PLATEAU"
	WindsweptHills    classify.Category = "WINDSWEPT_HILLS"
	Jungle            classify.Category = "JUNGLE"
	SparseJungle      classify.Category = "SPARSE_JUNGLE"
	BambooJungle      classify.Category = "BAMBOO_JUNGLE"
	Badlands          classify.Category = "BADLANDS"
	ErodedBadlands    classify.Category = "ERODED_BADLANDS"
	Meadow            classify.Category = "MEADOW"
	Grove             classify.Category = "GROVE"
	SnowySlopes       classify.Category = "SNOWY_SLOPES"
	JaggedPeaks       classify.Category = "JAGGED_PEAKS"
	StonyPeaks        classify.Category = "STONY_PEAKS"
	MushroomFields    classify.Category = "MUSHROOM_FIELDS"
)

var all = []classify.Category{
	Ocean, DeepOcean, ColdOcean, DeepColdOcean, FrozenOcean, DeepFrozenOcean,
	LukewarmOcean, DeepLukewarmOcean, WarmOcean, River, FrozenRiver, Beach,
	SnowyBeach, StonyShore, Plains, SunflowerPlains, SnowyPlains, IceSpikes,
	Desert, Swamp, MangroveSwamp, Forest, FlowerForest, BirchForest, DarkForest,
	OldGrowthPine, Taiga, SnowyTaiga, Savanna, SavannaPlateau, WindsweptHills,
	Jungle, SparseJungle, BambooJungle, Badlands, ErodedBadlands, Meadow, Grove,
	SnowySlopes, JaggedPeaks, StonyPeaks, MushroomFields,
}

// Catalog returns every recognized biome.
func Catalog() classify.Catalog {
	return classify.NewCatalog(all...)
}

// Oceans returns the default exclusion set.
func Oceans() []classify.Category {
	return []classify.Category{
		Ocean, ColdOcean, DeepColdOcean, DeepOcean, DeepLukewarmOcean,
		FrozenOcean, DeepFrozenOcean, LukewarmOcean, WarmOcean,
	}
}

// table[t][h]: rows run cold → hot, columns dry → wet.
var table = [4][4]classify.Category{
	{SnowyPlains, SnowyTaiga, FrozenOcean, IceSpikes},
	{Plains, Taiga, Ocean, BirchForest},
	{Plains, Forest, DeepOcean, Swamp},
	{Desert, Savanna, WarmOcean, Jungle},
}

// Map is a deterministic noise-driven biome lookup. It is immutable and safe
// for concurrent use.
type Map struct {
	temperature *noise.Cellular
	humidity    *noise.Cellular
}

// NewMap builds a Map from seed. frequency controls biome size.
func NewMap(seed int64, frequency float64) (*Map, error) {
	t, err := noise.NewCellular(noise.Params{Seed: seed, Frequency: frequency, Jitter: 1})
	if err != nil {
		return nil, err
	}
	h, err := noise.NewCellular(noise.Params{Seed: seed ^ 0x5bd1e995, Frequency: frequency * 1.37, Jitter: 1})
	if err != nil {
		return nil, err
	}
	return &Map{temperature: t, humidity: h}, nil
}

// CategoryOf implements classify.Lookup.
func (m *Map) CategoryOf(c core.Cell) classify.Category {
	x, z := float64(c.X), float64(c.Z)
	return table[band(m.temperature.Noise(x, z))][band(m.humidity.Noise(x, z))]
}

// band maps [-1, 1) onto 0..3.
func band(v float64) int {
	b := int((v + 1) * 2)
	if b < 0 {
		return 0
	}
	if b > 3 {
		return 3
	}
	return b
}
