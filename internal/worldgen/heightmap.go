package worldgen

import (
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// HeightmapConfig tunes the layered-noise heightmap pass (§4.B.1).
type HeightmapConfig struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Frequency   float64
	LandRatio   float64 // fraction of cells that end up >= sea level
}

// DefaultHeightmapConfig matches spec §4.B.1's stated defaults.
func DefaultHeightmapConfig() HeightmapConfig {
	return HeightmapConfig{
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Frequency:   0.06,
		LandRatio:   0.55,
	}
}

// octaveNoise layers noise octaves, grounded on the teacher's
// internal/world/generation.go octaveNoise helper, generalized to a
// caller-supplied lacunarity rather than a hardcoded x2 per octave.
func octaveNoise(noise opensimplex.Noise, x, y float64, cfg HeightmapConfig) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := cfg.Frequency

	for i := 0; i < cfg.Octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= cfg.Persistence
		frequency *= cfg.Lacunarity
	}
	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// Ridge is an oriented line segment with radial falloff added to simulate
// tectonic features (§4.B.2, optional).
type Ridge struct {
	X1, Y1, X2, Y2 float64
	Height         float64 // peak contribution at the ridge line
	Falloff        float64 // distance (in cells) over which the contribution decays to 0
}

// GenerateHeightmap produces the integer elevation grid in [0,100], with
// the (1-landRatio)-quantile renormalized to sea level 20 and the
// remainder linearly scaled to [20,100] per spec §4.B.1.
func GenerateHeightmap(width, height int, seed *ElevSeed, cfg HeightmapConfig, ridges []Ridge) [][]int {
	raw := make([][]float64, height)
	flat := make([]float64, 0, width*height)

	for y := 0; y < height; y++ {
		raw[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			v := octaveNoise(seed.noise, float64(x), float64(y), cfg)
			v += ridgeContribution(float64(x), float64(y), ridges)
			raw[y][x] = v
			flat = append(flat, v)
		}
	}

	sorted := append([]float64(nil), flat...)
	sort.Float64s(sorted)

	landRatio := cfg.LandRatio
	if landRatio <= 0 || landRatio >= 1 {
		landRatio = 0.55
	}
	// The (1-landRatio) quantile of raw noise values becomes sea level.
	quantileIdx := int(float64(len(sorted)-1) * (1 - landRatio))
	if quantileIdx < 0 {
		quantileIdx = 0
	}
	seaThreshold := sorted[quantileIdx]
	minV, maxV := sorted[0], sorted[len(sorted)-1]

	elevation := make([][]int, height)
	for y := 0; y < height; y++ {
		elevation[y] = make([]int, width)
		for x := 0; x < width; x++ {
			v := raw[y][x]
			var scaled float64
			if v <= seaThreshold {
				// At or below threshold: compress into [0, 20]; the
				// threshold value itself lands on sea level.
				if seaThreshold > minV {
					scaled = (v - minV) / (seaThreshold - minV) * SeaLevel
				} else {
					scaled = 0
				}
			} else {
				// Above threshold: stretch into [20, 100].
				if maxV > seaThreshold {
					scaled = SeaLevel + (v-seaThreshold)/(maxV-seaThreshold)*(100-SeaLevel)
				} else {
					scaled = SeaLevel
				}
			}
			elevation[y][x] = clampInt(int(math.Round(scaled)), 0, 100)
		}
	}
	return elevation
}

func ridgeContribution(x, y float64, ridges []Ridge) float64 {
	total := 0.0
	for _, r := range ridges {
		d := distToSegment(x, y, r.X1, r.Y1, r.X2, r.Y2)
		if r.Falloff <= 0 {
			continue
		}
		t := 1 - d/r.Falloff
		if t > 0 {
			total += t * r.Height
		}
	}
	return total
}

func distToSegment(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := x1+t*dx, y1+t*dy
	return math.Hypot(px-cx, py-cy)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ElevSeed wraps the opensimplex noise generator used for elevation.
type ElevSeed struct {
	noise opensimplex.Noise
}

// NewElevSeed derives an elevation noise source from an int64 seed.
func NewElevSeed(seed int64) *ElevSeed {
	return &ElevSeed{noise: opensimplex.NewNormalized(seed)}
}
