// Package spatial implements the square-grid geometry the combat engine
// runs on: pathfinding, line-of-sight, and area-of-effect shape membership
// (§4.C). Grounded in the teacher's hex grid style — a small coordinate
// type plus package-level pure neighbor/distance functions
// (internal/world/hexgrid.go) — generalized to the square integer grid and
// Chebyshev distance spec.md §4.C requires.
package spatial

import "github.com/tobyjaguar/rpgkernel/internal/worldgen"

// Coord is a square grid position; a thin alias over worldgen.Coord so the
// combat and world-generation engines share one coordinate space (§4.C:
// "Grid coordinates are integer (x,y)").
type Coord = worldgen.Coord

// FeetPerTile is the 5-foot tile convention spec.md §4.C calls for.
const FeetPerTile = 5

// FeetToTiles converts a distance in feet to whole tiles, per the explicit
// conversion helper spec.md §4.C requires.
func FeetToTiles(feet int) int {
	return feet / FeetPerTile
}

// TilesToFeet converts a tile count to feet.
func TilesToFeet(tiles int) int {
	return tiles * FeetPerTile
}

// ObstacleSet is the set of blocked coordinates a path or line of sight must
// route around (§4.C).
type ObstacleSet map[Coord]bool

// NewObstacleSet builds an ObstacleSet from a slice of coordinates.
func NewObstacleSet(coords []Coord) ObstacleSet {
	set := make(ObstacleSet, len(coords))
	for _, c := range coords {
		set[c] = true
	}
	return set
}

// Chebyshev returns the Chebyshev (king-move) distance in tiles between a
// and b, the metric A*'s heuristic and the combat engine's threat ranges
// both use (§4.C, §4.D.4).
func Chebyshev(a, b Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// neighbors8 returns the eight king-move neighbors of c, honoring the
// "diagonals allowed unless the two orthogonal neighbors are both
// obstacles" rule from spec.md §4.C.
func neighbors8(c Coord, obstacles ObstacleSet) []Coord {
	orth := [4]Coord{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
	}
	diag := [4][2]Coord{
		{{X: c.X + 1, Y: c.Y}, {X: c.X, Y: c.Y + 1}},   // guards (c.X+1,c.Y+1)
		{{X: c.X + 1, Y: c.Y}, {X: c.X, Y: c.Y - 1}},   // guards (c.X+1,c.Y-1)
		{{X: c.X - 1, Y: c.Y}, {X: c.X, Y: c.Y + 1}},   // guards (c.X-1,c.Y+1)
		{{X: c.X - 1, Y: c.Y}, {X: c.X, Y: c.Y - 1}},   // guards (c.X-1,c.Y-1)
	}
	diagTarget := [4]Coord{
		{X: c.X + 1, Y: c.Y + 1},
		{X: c.X + 1, Y: c.Y - 1},
		{X: c.X - 1, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y - 1},
	}

	out := make([]Coord, 0, 8)
	for _, n := range orth {
		out = append(out, n)
	}
	for i, guards := range diag {
		if obstacles[guards[0]] && obstacles[guards[1]] {
			continue // both orthogonal corners blocked: diagonal cut is disallowed
		}
		out = append(out, diagTarget[i])
	}
	return out
}
