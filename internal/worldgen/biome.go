package worldgen

// TemperatureBand is one of the 5 bands the biome matrix is keyed on (§6).
type TemperatureBand uint8

const (
	BandCold TemperatureBand = iota // < -10
	BandCool                        // [-10, 0)
	BandTemperate                   // [0, 10)
	BandWarm                        // [10, 19)
	BandHot                         // >= 19
)

// bandFor classifies an integer temperature into its band. Boundary
// temperatures (19, 10, 0, -10) map to the *upper* band per spec §8
// boundary behaviors.
func bandFor(temp int) TemperatureBand {
	switch {
	case temp >= 19:
		return BandHot
	case temp >= 10:
		return BandWarm
	case temp >= 0:
		return BandTemperate
	case temp >= -10:
		return BandCool
	default:
		return BandCold
	}
}

// moistureLevel maps moisture [0,100] onto the matrix's 26 discrete levels
// (0..25), spec §6.
func moistureLevel(moisture int) int {
	level := moisture * 26 / 101
	if level > 25 {
		level = 25
	}
	if level < 0 {
		level = 0
	}
	return level
}

// biomeMatrix is the closed 5-band x 26-level lookup table (§6). Authored
// to satisfy the spec's anchor examples exactly: Hot/0=>Desert,
// Hot/16=>Rainforest, Hot/23=>Swamp, Cold/0=>Tundra, Cold/18=>Glacier.
var biomeMatrix = [5][26]Biome{
	// BandCold
	{
		BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra,
		BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra,
		BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra, BiomeTundra,
		BiomeTundra, BiomeTundra, BiomeTundra, BiomeGlacier, BiomeGlacier,
		BiomeGlacier, BiomeGlacier, BiomeGlacier, BiomeGlacier, BiomeGlacier,
		BiomeGlacier,
	},
	// BandCool
	{
		BiomeSteppe, BiomeSteppe, BiomeSteppe, BiomeSteppe, BiomeSteppe,
		BiomeSteppe, BiomeSteppe, BiomeSteppe, BiomeSteppe, BiomeSteppe,
		BiomeTaiga, BiomeTaiga, BiomeTaiga, BiomeTaiga, BiomeTaiga,
		BiomeTaiga, BiomeTaiga, BiomeTaiga, BiomeTaiga, BiomeTaiga,
		BiomeTaiga, BiomeBog, BiomeBog, BiomeBog, BiomeBog,
		BiomeBog,
	},
	// BandTemperate
	{
		BiomeGrassland, BiomeGrassland, BiomeGrassland, BiomeGrassland, BiomeGrassland,
		BiomeGrassland, BiomeGrassland, BiomeGrassland, BiomeForest, BiomeForest,
		BiomeForest, BiomeForest, BiomeForest, BiomeForest, BiomeForest,
		BiomeForest, BiomeForest, BiomeForest, BiomeForest, BiomeForest,
		BiomeForest, BiomeSwamp, BiomeSwamp, BiomeSwamp, BiomeSwamp,
		BiomeSwamp,
	},
	// BandWarm
	{
		BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert,
		BiomeDesert, BiomeGrassland, BiomeGrassland, BiomeGrassland, BiomeGrassland,
		BiomeGrassland, BiomeGrassland, BiomeGrassland, BiomeForest, BiomeForest,
		BiomeForest, BiomeForest, BiomeForest, BiomeForest, BiomeForest,
		BiomeSwamp, BiomeSwamp, BiomeSwamp, BiomeSwamp, BiomeSwamp,
		BiomeSwamp,
	},
	// BandHot
	{
		BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert,
		BiomeSavanna, BiomeSavanna, BiomeSavanna, BiomeSavanna, BiomeSavanna,
		BiomeShrubland, BiomeShrubland, BiomeShrubland, BiomeShrubland, BiomeForest,
		BiomeForest, BiomeRainforest, BiomeRainforest, BiomeRainforest, BiomeRainforest,
		BiomeRainforest, BiomeRainforest, BiomeSwamp, BiomeSwamp, BiomeSwamp,
		BiomeSwamp,
	},
}

// AssignBiome returns the biome for a tile's elevation/moisture/temperature,
// per spec §4.B.4: ocean cells (elevation < SeaLevel) always map to Ocean
// and bypass the matrix entirely.
func AssignBiome(elevation, moisture, temperature int) Biome {
	if elevation < SeaLevel {
		return BiomeOcean
	}
	band := bandFor(temperature)
	level := moistureLevel(moisture)
	return biomeMatrix[band][level]
}
