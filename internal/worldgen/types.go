// Package worldgen implements the seed-stable procedural world pipeline:
// heightmap, climate, biome assignment, rivers, regions, and structure
// placement. Grounded on the teacher's internal/world package, generalized
// from an axial hex grid to the square integer grid spec §3 requires, and
// from a fixed sea-level threshold to the quantile-normalized heightmap
// spec §4.B.1 demands.
package worldgen

// Coord is an integer grid position. Spec §4.C calls out a 5-foot tile
// convention for the combat/spatial engine; worldgen coordinates share the
// same (x,y) space.
type Coord struct {
	X, Y int
}

// Biome is the closed set of terrain classifications produced by the
// temperature x moisture lookup matrix (§6), plus Ocean which bypasses it.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeDesert
	BiomeSavanna
	BiomeShrubland
	BiomeForest
	BiomeRainforest
	BiomeSwamp
	BiomeGrassland
	BiomeSteppe
	BiomeTaiga
	BiomeBog
	BiomeTundra
	BiomeGlacier
)

// String returns the human-readable biome name used in prose envelopes.
func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "ocean"
	case BiomeDesert:
		return "desert"
	case BiomeSavanna:
		return "savanna"
	case BiomeShrubland:
		return "shrubland"
	case BiomeForest:
		return "forest"
	case BiomeRainforest:
		return "rainforest"
	case BiomeSwamp:
		return "swamp"
	case BiomeGrassland:
		return "grassland"
	case BiomeSteppe:
		return "steppe"
	case BiomeTaiga:
		return "taiga"
	case BiomeBog:
		return "bog"
	case BiomeTundra:
		return "tundra"
	case BiomeGlacier:
		return "glacier"
	default:
		return "unknown"
	}
}

// SeaLevel is the elevation threshold below which a tile is always ocean,
// regardless of the biome matrix (§6).
const SeaLevel = 20

// Tile is one cell of the world grid. Elevation/Moisture are clamped to
// [0,100], Temperature to [-20,40], all integers per spec §3.
type Tile struct {
	WorldID     string
	X, Y        int
	Biome       Biome
	Elevation   int
	Moisture    int
	Temperature int
}

// Region groups contiguous tiles sharing biome/elevation band (§3, §4.B.6).
type Region struct {
	ID      string
	WorldID string
	Name    string
	Type    RegionType
	CenterX int
	CenterY int
	Color   string
}

// RegionType classifies a region's habitation character.
type RegionType string

const (
	RegionKingdom    RegionType = "kingdom"
	RegionWilderness RegionType = "wilderness"
)

// RiverSegment is one directed edge of a river's downhill flow graph (§3).
// The graph formed by all segments for a world is a DAG from source to
// mouth; flow is strictly downhill by elevation (§8 invariant 2).
type RiverSegment struct {
	WorldID string
	FromX   int
	FromY   int
	ToX     int
	ToY     int
	Flux    int // accumulated upstream flow, conserved along the path
}

// StructureType enumerates placeable settlements and points of interest (§3).
type StructureType string

const (
	StructureCity   StructureType = "city"
	StructureTown   StructureType = "town"
	StructureVillage StructureType = "village"
	StructureCastle StructureType = "castle"
	StructureRuins  StructureType = "ruins"
	StructureDungeon StructureType = "dungeon"
	StructureTemple StructureType = "temple"
)

// Structure is a named point of interest placed on the world grid (§3).
type Structure struct {
	ID         string
	WorldID    string
	Type       StructureType
	X, Y       int
	Name       string
	Population *int
}

// Road is a constructed path between two tiles, added post-generation by
// the map patch DSL's ADD_ROAD command (§4.E).
type Road struct {
	WorldID  string
	FromX    int
	FromY    int
	ToX      int
	ToY      int
}

// Annotation is a free-text marker pinned to a tile, added by the map
// patch DSL's ADD_ANNOTATION command (§4.E).
type Annotation struct {
	WorldID string
	X, Y    int
	Text    string
}

// World is the top-level procedurally generated world record (§3).
type World struct {
	ID          string
	Name        string
	Seed        string
	Width       int
	Height      int
	CreatedAt   int64
	UpdatedAt   int64
	Environment string

	Tiles       map[Coord]*Tile
	Regions     []*Region
	Rivers      []*RiverSegment
	Structures  []*Structure
	Roads       []*Road
	Annotations []*Annotation
}

// Tile returns the tile at (x,y), or nil if outside the grid.
func (w *World) Tile(x, y int) *Tile {
	return w.Tiles[Coord{X: x, Y: y}]
}

// InBounds reports whether (x,y) lies within the world's width/height.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// Neighbors4 returns the four orthogonal neighbor coordinates of (x,y).
func Neighbors4(c Coord) [4]Coord {
	return [4]Coord{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
	}
}

// Neighbors8 returns all eight neighbor coordinates (orthogonal + diagonal),
// the same neighborhood the combat engine uses for opportunity-attack
// threat ranges (§4.D.4).
func Neighbors8(c Coord) [8]Coord {
	return [8]Coord{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y + 1},
		{X: c.X + 1, Y: c.Y - 1},
		{X: c.X - 1, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y - 1},
	}
}
