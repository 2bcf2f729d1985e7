package worldgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// ClimateConfig tunes the temperature/moisture pass (§4.B.3).
type ClimateConfig struct {
	LapseRate      float64 // degrees lost per 10 elevation points above sea level
	NoiseAmplitude float64
	TropicalBonus  float64 // moisture bonus near the equator
}

// DefaultClimateConfig matches spec §4.B.3's described weights.
func DefaultClimateConfig() ClimateConfig {
	return ClimateConfig{
		LapseRate:      6,
		NoiseAmplitude: 4,
		TropicalBonus:  15,
	}
}

// Temperature computes Temperature(x,y) per spec §4.B.3: a latitude base
// (linear from equator hot to pole cold) plus an elevation lapse term,
// plus low-amplitude noise, clamped to [-20,40] integer.
func Temperature(y, height, elevation int, noise opensimplex.Noise, x int, cfg ClimateConfig) int {
	latFrac := latitudeFraction(y, height) // 0 at equator, 1 at poles
	base := 40 - latFrac*60                // 40 at equator, -20 at poles

	lapse := -(float64(elevation-SeaLevel) / 10) * cfg.LapseRate

	n := noise.Eval2(float64(x)*0.08, float64(y)*0.08) * cfg.NoiseAmplitude

	return clampInt(int(math.Round(base+lapse+n)), -20, 40)
}

// Moisture computes Moisture(x,y) per spec §4.B.3: an ocean-proximity term
// (inverse-linear to max BFS distance), a latitude tropical bonus, and
// noise, clamped to [0,100].
func Moisture(x, y int, oceanDist, maxOceanDist int, height int, noise opensimplex.Noise, cfg ClimateConfig) int {
	proximity := 0.0
	if maxOceanDist > 0 {
		proximity = (1 - float64(oceanDist)/float64(maxOceanDist)) * 70
	}

	latFrac := latitudeFraction(y, height)
	tropical := (1 - latFrac) * cfg.TropicalBonus

	n := noise.Eval2(float64(x)*0.06, float64(y)*0.06) * cfg.NoiseAmplitude

	return clampInt(int(math.Round(proximity+tropical+n+15)), 0, 100)
}

// latitudeFraction returns 0 at the equator (mid-height row) and 1 at
// either pole (top/bottom row).
func latitudeFraction(y, height int) float64 {
	if height <= 1 {
		return 0
	}
	mid := float64(height-1) / 2
	return math.Abs(float64(y)-mid) / mid
}

// OceanDistanceBFS computes, for every land cell, the Manhattan-grid BFS
// distance to the nearest ocean cell (elevation < SeaLevel). Ocean cells
// get distance 0. Used by Moisture's ocean-proximity term (§4.B.3).
func OceanDistanceBFS(elevation [][]int) (dist [][]int, maxDist int) {
	height := len(elevation)
	if height == 0 {
		return nil, 0
	}
	width := len(elevation[0])

	dist = make([][]int, height)
	for y := range dist {
		dist[y] = make([]int, width)
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}

	type qitem struct{ x, y int }
	queue := make([]qitem, 0, width*height/4)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if elevation[y][x] < SeaLevel {
				dist[y][x] = 0
				queue = append(queue, qitem{x, y})
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, n := range Neighbors4(Coord{X: cur.x, Y: cur.y}) {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if dist[n.Y][n.X] != -1 {
				continue
			}
			dist[n.Y][n.X] = dist[cur.y][cur.x] + 1
			if dist[n.Y][n.X] > maxDist {
				maxDist = dist[n.Y][n.X]
			}
			queue = append(queue, qitem{n.X, n.Y})
		}
	}

	// Any unreached cell (shouldn't happen on a connected grid) falls back
	// to maxDist so it reads as "far from the sea" rather than "adjacent".
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dist[y][x] == -1 {
				dist[y][x] = maxDist
			}
		}
	}

	return dist, maxDist
}
