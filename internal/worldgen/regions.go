package worldgen

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// elevationBand buckets elevation into coarse bands for region segmentation
// (§4.B.6): a region groups contiguous tiles sharing biome AND elevation
// band, so a single biome isn't one giant region spanning lowlands to
// highlands.
func elevationBand(elevation int) int {
	return elevation / 20
}

// SegmentRegions flood-fills contiguous land into regions sharing biome and
// elevation band, assigning deterministic names from namer, one per region
// in traversal order (§4.B.6). Grounded on the teacher's settlement scoring style
// (deterministic, pure over inputs) though the teacher itself had no
// region concept — nearest analog is its terrain-type bookkeeping.
func SegmentRegions(w *World, namer *RegionNamer) []*Region {
	visited := make(map[Coord]bool, len(w.Tiles))
	var regions []*Region

	// Deterministic traversal order: a map range is unordered in Go, so we
	// sort coordinates first to keep region assignment (and therefore
	// naming) a pure function of world content, not map iteration order.
	coords := make([]Coord, 0, len(w.Tiles))
	for c := range w.Tiles {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	for _, start := range coords {
		if visited[start] {
			continue
		}
		startTile := w.Tiles[start]
		if startTile.Biome == BiomeOcean {
			visited[start] = true
			continue
		}

		band := elevationBand(startTile.Elevation)
		members := floodFill(w, start, startTile.Biome, band, visited)
		if len(members) == 0 {
			continue
		}

		cx, cy := centroid(members)
		rtype := RegionWilderness
		if startTile.Biome == BiomeGrassland || startTile.Biome == BiomeForest || startTile.Biome == BiomeSteppe {
			rtype = RegionKingdom
		}

		regions = append(regions, &Region{
			ID:      uuid.NewString(),
			WorldID: w.ID,
			Name:    namer.Next(),
			Type:    rtype,
			CenterX: cx,
			CenterY: cy,
			Color:   regionColor(startTile.Biome),
		})
	}
	return regions
}

func floodFill(w *World, start Coord, biome Biome, band int, visited map[Coord]bool) []Coord {
	var members []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)

		for _, n := range Neighbors4(cur) {
			if visited[n] {
				continue
			}
			tile := w.Tiles[n]
			if tile == nil || tile.Biome != biome || elevationBand(tile.Elevation) != band {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return members
}

func centroid(coords []Coord) (int, int) {
	sumX, sumY := 0, 0
	for _, c := range coords {
		sumX += c.X
		sumY += c.Y
	}
	return sumX / len(coords), sumY / len(coords)
}

func regionColor(b Biome) string {
	switch b {
	case BiomeDesert:
		return "#d9c27e"
	case BiomeForest, BiomeRainforest, BiomeShrubland:
		return "#3f7a3f"
	case BiomeSwamp, BiomeBog:
		return "#4e5b3a"
	case BiomeGrassland, BiomeSavanna, BiomeSteppe:
		return "#a9c46c"
	case BiomeTaiga:
		return "#5c7a6a"
	case BiomeTundra:
		return "#c6d3d9"
	case BiomeGlacier:
		return "#eaf6ff"
	default:
		return "#808080"
	}
}

// RegionNamer produces deterministic region names from a dice stream,
// grounded on the teacher's settlement_placer.go generateNames
// prefix+suffix combinator, reused for region naming rather than just
// settlement naming.
type RegionNamer struct {
	prefixes []string
	suffixes []string
	stream   randIntn
	index    int
	used     map[string]bool
}

// randIntn is the minimal surface RegionNamer and StructureNamer need from
// a dice.Stream: a single Intn call.
type randIntn interface {
	Intn(n int) int
}

// NewRegionNamer builds a namer backed by the given stream.
func NewRegionNamer(stream randIntn) *RegionNamer {
	return &RegionNamer{
		prefixes: []string{
			"Ashen", "Gilded", "Hollow", "Verdant", "Windswept", "Sunken",
			"Forgotten", "Crimson", "Silver", "Broken", "Shrouded", "Emerald",
			"Frostbound", "Sable", "Wild", "Quiet", "Burning", "Drowned",
		},
		suffixes: []string{
			"Reach", "Expanse", "March", "Vale", "Span", "Barrens",
			"Hollows", "Wilds", "Stretch", "Basin", "Tract", "Flats",
		},
		stream: stream,
		used:   make(map[string]bool),
	}
}

// Next returns the next deterministic, non-repeating region name.
func (n *RegionNamer) Next() string {
	for {
		p := n.prefixes[n.stream.Intn(len(n.prefixes))]
		s := n.suffixes[n.stream.Intn(len(n.suffixes))]
		name := fmt.Sprintf("%s %s", p, s)
		if !n.used[name] {
			n.used[name] = true
			return name
		}
		n.index++
		if n.index > 10000 {
			// Exhausted combination space; fall back to a disambiguated name
			// rather than spin forever.
			return fmt.Sprintf("%s %s %d", p, s, n.index)
		}
	}
}
