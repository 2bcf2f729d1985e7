package worldgen_test

import (
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

func elevationGrid(t *testing.T, w *worldgen.World) map[worldgen.Coord]int {
	t.Helper()
	grid := make(map[worldgen.Coord]int, len(w.Tiles))
	for c, tile := range w.Tiles {
		grid[c] = tile.Elevation
	}
	return grid
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := worldgen.GenConfig{Seed: "determinism-001", Width: 15, Height: 15}

	r1, err := worldgen.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	r2, err := worldgen.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	g1, g2 := elevationGrid(t, r1.World), elevationGrid(t, r2.World)
	for c, e1 := range g1 {
		if g2[c] != e1 {
			t.Fatalf("elevation diverged at %+v: %d vs %d", c, e1, g2[c])
		}
	}
}

func TestDistinctSeedsDiffer(t *testing.T) {
	a, err := worldgen.Generate(worldgen.GenConfig{Seed: "seed-alpha", Width: 15, Height: 15})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := worldgen.Generate(worldgen.GenConfig{Seed: "seed-beta", Width: 15, Height: 15})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	diff := 0
	total := 0
	for c, ta := range a.World.Tiles {
		tb := b.World.Tile(c.X, c.Y)
		total++
		if tb == nil || tb.Elevation != ta.Elevation {
			diff++
		}
	}
	if float64(diff) < 0.5*float64(total) {
		t.Fatalf("expected >=50%% of %d cells to differ, got %d", total, diff)
	}
}

func TestInvalidParametersFail(t *testing.T) {
	cases := []worldgen.GenConfig{
		{Seed: "x", Width: 0, Height: 10},
		{Seed: "x", Width: 10, Height: 0},
		{Seed: "", Width: 10, Height: 10},
		{Seed: "x", Width: 10, Height: 10, LandRatio: 1.5},
	}
	for _, c := range cases {
		if _, err := worldgen.Generate(c); err == nil {
			t.Errorf("expected error for config %+v", c)
		}
	}
}

func TestSeaLevelBiomeIsAlwaysOcean(t *testing.T) {
	if b := worldgen.AssignBiome(19, 50, 25); b != worldgen.BiomeOcean {
		t.Fatalf("elevation below sea level must be ocean, got %v", b)
	}
	if b := worldgen.AssignBiome(20, 0, 25); b == worldgen.BiomeOcean {
		t.Fatalf("elevation at sea level must not bypass the matrix")
	}
}

func TestBiomeMatrixAnchors(t *testing.T) {
	cases := []struct {
		temp, moisture int
		want           worldgen.Biome
	}{
		{25, 0, worldgen.BiomeDesert},      // Hot/0
		{25, 64, worldgen.BiomeRainforest}, // Hot/16 -> moisture 64 maps to level 16
		{25, 89, worldgen.BiomeSwamp},      // Hot/22 (still within the Hot/22-25 swamp band)
		{-15, 0, worldgen.BiomeTundra},     // Cold/0
		{-15, 70, worldgen.BiomeGlacier},   // Cold/18
	}
	for _, c := range cases {
		got := worldgen.AssignBiome(50, c.moisture, c.temp)
		if got != c.want {
			t.Errorf("AssignBiome(elev=50, moisture=%d, temp=%d) = %v, want %v", c.moisture, c.temp, got, c.want)
		}
	}
}

func TestTemperatureBandBoundariesMapToUpperBand(t *testing.T) {
	// Boundary temperatures (19, 10, 0, -10) belong to the band above the
	// threshold, not the one below it (§8 boundary behaviors).
	cases := []struct {
		boundary, upperBandSample int
	}{
		{19, 20},
		{10, 12},
		{0, 5},
		{-10, -5},
	}
	for _, c := range cases {
		for moisture := 0; moisture <= 100; moisture += 25 {
			boundaryBiome := worldgen.AssignBiome(50, moisture, c.boundary)
			upperBiome := worldgen.AssignBiome(50, moisture, c.upperBandSample)
			if boundaryBiome != upperBiome {
				t.Errorf("temp=%d (moisture=%d) = %v, expected to match upper band sample temp=%d = %v",
					c.boundary, moisture, boundaryBiome, c.upperBandSample, upperBiome)
			}
		}
	}
}

func TestRiverFlowIsMonotoneAndAcyclic(t *testing.T) {
	r, err := worldgen.Generate(worldgen.GenConfig{Seed: "river-check", Width: 30, Height: 30})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, seg := range r.World.Rivers {
		from := r.World.Tile(seg.FromX, seg.FromY)
		to := r.World.Tile(seg.ToX, seg.ToY)
		if from == nil || to == nil {
			t.Fatalf("segment references missing tile: %+v", seg)
		}
		if to.Elevation >= from.Elevation && to.Biome != worldgen.BiomeOcean {
			t.Errorf("river segment not strictly downhill: %+v -> %+v", from, to)
		}
	}

	// Acyclic: following From->To edges from any segment must terminate
	// (each node has out-degree <= 1, so a cycle would loop forever).
	next := make(map[worldgen.Coord]worldgen.Coord)
	for _, seg := range r.World.Rivers {
		next[worldgen.Coord{X: seg.FromX, Y: seg.FromY}] = worldgen.Coord{X: seg.ToX, Y: seg.ToY}
	}
	for start := range next {
		visited := map[worldgen.Coord]bool{}
		cur := start
		for {
			if visited[cur] {
				t.Fatalf("cycle detected starting at %+v", start)
			}
			visited[cur] = true
			n, ok := next[cur]
			if !ok {
				break
			}
			cur = n
		}
	}
}
