package worldgen

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// StructurePlacementConfig tunes placement scoring and spacing (§4.B.7).
type StructurePlacementConfig struct {
	MinCityDistance    int
	MinTownDistance    int
	MinVillageDistance int
	NumCities          int
	NumTowns           int
	NumVillages        int
}

// DefaultStructurePlacementConfig mirrors the teacher's settlement_placer.go
// spacing constants.
func DefaultStructurePlacementConfig() StructurePlacementConfig {
	return StructurePlacementConfig{
		MinCityDistance:    8,
		MinTownDistance:    4,
		MinVillageDistance: 2,
		NumCities:          4,
		NumTowns:           14,
		NumVillages:        36,
	}
}

type scoredCoord struct {
	coord Coord
	score float64
}

// PlaceStructures scores every land tile for desirability and places
// cities/towns/villages honoring minimum separation (§4.B.7), grounded
// directly on the teacher's settlementScore/tooClose/PlaceSettlements
// (internal/world/settlement_placer.go), generalized to the spec's
// structure-type taxonomy and "near coast / river confluence" rule (§3).
func PlaceStructures(w *World, rivers []*RiverSegment, cfg StructurePlacementConfig, namer *StructureNamer) []*Structure {
	riverMouths := confluenceScore(rivers)

	var candidates []scoredCoord
	for coord, tile := range w.Tiles {
		if tile.Biome == BiomeOcean {
			continue
		}
		s := structureScore(w, coord, tile, riverMouths)
		if s > 0 {
			candidates = append(candidates, scoredCoord{coord, s})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		// Deterministic tie-break independent of map iteration order.
		if candidates[i].coord.Y != candidates[j].coord.Y {
			return candidates[i].coord.Y < candidates[j].coord.Y
		}
		return candidates[i].coord.X < candidates[j].coord.X
	})

	var placed []*Structure
	taken := func(c Coord, minDist int) bool {
		for _, s := range placed {
			if chebyshev(c, Coord{X: s.X, Y: s.Y}) < minDist {
				return true
			}
		}
		return false
	}

	placeN := func(n int, typ StructureType, minDist int) {
		count := 0
		for _, c := range candidates {
			if count >= n {
				break
			}
			if taken(c.coord, minDist) {
				continue
			}
			pop := populationFor(typ)
			placed = append(placed, &Structure{
				ID:         uuid.NewString(),
				WorldID:    w.ID,
				Type:       typ,
				X:          c.coord.X,
				Y:          c.coord.Y,
				Name:       namer.Next(),
				Population: &pop,
			})
			count++
		}
	}

	placeN(cfg.NumCities, StructureCity, cfg.MinCityDistance)
	placeN(cfg.NumTowns, StructureTown, cfg.MinTownDistance)
	placeN(cfg.NumVillages, StructureVillage, cfg.MinVillageDistance)

	return placed
}

func chebyshev(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// confluenceScore counts how many river segments terminate at each tile;
// two or more marks a confluence, so cities can be scored for proximity to
// one (§3: "cities near coast and river confluence").
func confluenceScore(rivers []*RiverSegment) map[Coord]int {
	counts := make(map[Coord]int)
	for _, r := range rivers {
		counts[Coord{X: r.ToX, Y: r.ToY}]++
	}
	return counts
}

func structureScore(w *World, coord Coord, tile *Tile, confluences map[Coord]int) float64 {
	score := 0.0
	switch tile.Biome {
	case BiomeGrassland, BiomeSteppe:
		score += 3.0
	case BiomeForest, BiomeTaiga:
		score += 1.5
	case BiomeSavanna, BiomeShrubland:
		score += 1.2
	case BiomeDesert, BiomeSwamp, BiomeBog, BiomeTundra:
		score += 0.5
	default:
		return 0
	}

	coastal := false
	for _, n := range Neighbors8(coord) {
		if t := w.Tile(n.X, n.Y); t != nil && t.Biome == BiomeOcean {
			coastal = true
		}
	}
	if coastal {
		score += 4.0 // harbors are prime locations
	}

	if confluences[coord] >= 2 {
		score += 3.5
	} else if confluences[coord] == 1 {
		score += 1.5
	}

	return score
}

func populationFor(typ StructureType) int {
	switch typ {
	case StructureCity:
		return 5000
	case StructureTown:
		return 800
	case StructureVillage:
		return 150
	default:
		return 0
	}
}

// StructureNamer produces deterministic settlement names, grounded on the
// teacher's generateNames prefix+suffix combinator.
type StructureNamer struct {
	prefixes []string
	suffixes []string
	stream   randIntn
	used     map[string]bool
	overflow int
}

// NewStructureNamer builds a namer backed by the given stream.
func NewStructureNamer(stream randIntn) *StructureNamer {
	return &StructureNamer{
		prefixes: []string{
			"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
			"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
			"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
			"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
		},
		suffixes: []string{
			"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
			"stead", "wood", "field", "dale", "crest", "vale", "port",
			"town", "bury", "marsh", "well", "brook", "cliff", "moor",
			"ridge", "watch", "fall", "rest", "point", "reach", "helm",
		},
		stream: stream,
		used:   make(map[string]bool),
	}
}

// Next returns the next deterministic, non-repeating structure name.
func (n *StructureNamer) Next() string {
	for i := 0; i < 10000; i++ {
		p := n.prefixes[n.stream.Intn(len(n.prefixes))]
		s := n.suffixes[n.stream.Intn(len(n.suffixes))]
		name := p + s
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
	n.overflow++
	return fmt.Sprintf("Settlement-%d", n.overflow)
}
