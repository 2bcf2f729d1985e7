package spatial_test

import (
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

func TestFindPathStraightLine(t *testing.T) {
	from := spatial.Coord{X: 0, Y: 0}
	to := spatial.Coord{X: 5, Y: 0}
	path, ok := spatial.FindPath(from, to, spatial.ObstacleSet{})
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) != 6 {
		t.Fatalf("expected 6 tiles, got %d: %v", len(path), path)
	}
	if path[0] != from || path[len(path)-1] != to {
		t.Fatalf("path endpoints wrong: %v", path)
	}
}

func TestFindPathSameStartAndEndIsSingleTile(t *testing.T) {
	p := spatial.Coord{X: 4, Y: 4}
	path, ok := spatial.FindPath(p, p, spatial.ObstacleSet{})
	if !ok {
		t.Fatal("expected a path when from equals to")
	}
	if len(path) != 1 || path[0] != p {
		t.Fatalf("expected a length-1 path containing only %v, got %v", p, path)
	}
}

func TestFindPathDiagonalShortcut(t *testing.T) {
	from := spatial.Coord{X: 0, Y: 0}
	to := spatial.Coord{X: 3, Y: 3}
	path, ok := spatial.FindPath(from, to, spatial.ObstacleSet{})
	if !ok {
		t.Fatal("expected a path")
	}
	// Chebyshev distance is 3, so a diagonal-allowed path should take
	// exactly 4 tiles (start + 3 steps).
	if len(path) != 4 {
		t.Fatalf("expected diagonal shortcut of 4 tiles, got %d: %v", len(path), path)
	}
}

func TestFindPathBlockedDiagonalCut(t *testing.T) {
	obstacles := spatial.NewObstacleSet([]spatial.Coord{
		{X: 1, Y: 0}, {X: 0, Y: 1},
	})
	path, ok := spatial.FindPath(spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 1, Y: 1}, obstacles)
	if !ok {
		t.Fatal("expected a path around the blocked corner")
	}
	if len(path) < 3 {
		t.Fatalf("expected the diagonal cut to be disallowed, forcing a longer route, got %v", path)
	}
}

func TestFindPathNoPath(t *testing.T) {
	obstacles := spatial.NewObstacleSet([]spatial.Coord{
		{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
		{X: -1, Y: 0}, {X: 1, Y: 0},
		{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	})
	_, ok := spatial.FindPath(spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 5, Y: 0}, obstacles)
	if ok {
		t.Fatal("expected no path out of a start tile walled in on all sides")
	}
}

func TestLineOfSightUnobstructed(t *testing.T) {
	if !spatial.LineOfSight(spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 4, Y: 0}, spatial.ObstacleSet{}) {
		t.Fatal("expected clear line of sight")
	}
}

func TestLineOfSightBlocked(t *testing.T) {
	obstacles := spatial.NewObstacleSet([]spatial.Coord{{X: 2, Y: 0}})
	if spatial.LineOfSight(spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 4, Y: 0}, obstacles) {
		t.Fatal("expected line of sight to be blocked by the obstacle between endpoints")
	}
}

func TestLineOfSightObstacleAtEndpointIgnored(t *testing.T) {
	obstacles := spatial.NewObstacleSet([]spatial.Coord{{X: 4, Y: 0}})
	if !spatial.LineOfSight(spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 4, Y: 0}, obstacles) {
		t.Fatal("an obstacle exactly at the target endpoint must not block sight")
	}
}

func TestSphereIncludesWithinRadiusExcludesBeyond(t *testing.T) {
	positions := map[string]spatial.Coord{
		"near": {X: 1, Y: 0},
		"far":  {X: 10, Y: 0},
		"self": {X: 0, Y: 0},
	}
	hits := spatial.Sphere(positions, spatial.Coord{X: 0, Y: 0}, 10, "self")
	if len(hits) != 1 || hits[0] != "near" {
		t.Fatalf("expected only 'near' in a 10ft (2 tile) sphere, got %v", hits)
	}
}

func TestCubeAxisAligned(t *testing.T) {
	positions := map[string]spatial.Coord{
		"inside":  {X: 2, Y: 2},
		"outside": {X: 5, Y: 5},
	}
	hits := spatial.Cube(positions, spatial.Coord{X: 0, Y: 0}, 20, "")
	if len(hits) != 1 || hits[0] != "inside" {
		t.Fatalf("expected only 'inside' in a 20ft (4 tile) cube, got %v", hits)
	}
}

func TestConeForwardHit(t *testing.T) {
	positions := map[string]spatial.Coord{
		"ahead":   {X: 3, Y: 0},
		"behind":  {X: -3, Y: 0},
		"side":    {X: 0, Y: 5},
	}
	hits := spatial.Cone(positions, spatial.Coord{X: 0, Y: 0}, spatial.Vec2{X: 1, Y: 0}, 15, "")
	if len(hits) != 1 || hits[0] != "ahead" {
		t.Fatalf("expected only 'ahead' in a forward-facing cone, got %v", hits)
	}
}

func TestLineCorridor(t *testing.T) {
	positions := map[string]spatial.Coord{
		"inline": {X: 4, Y: 0},
		"offset": {X: 4, Y: 3},
	}
	hits := spatial.Line(positions, spatial.Coord{X: 0, Y: 0}, spatial.Vec2{X: 1, Y: 0}, 25, 5, "")
	if len(hits) != 1 || hits[0] != "inline" {
		t.Fatalf("expected only 'inline' within the 5ft-wide line, got %v", hits)
	}
}

func TestFeetTileConversion(t *testing.T) {
	if spatial.FeetToTiles(25) != 5 {
		t.Fatalf("expected 25ft to be 5 tiles, got %d", spatial.FeetToTiles(25))
	}
	if spatial.TilesToFeet(5) != 25 {
		t.Fatalf("expected 5 tiles to be 25ft, got %d", spatial.TilesToFeet(5))
	}
}
