package mappatch

import (
	"strconv"

	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

// DecodedCommand is a tagged variant over the closed set of patch
// operations (§9 DESIGN NOTES: "dynamic dispatch ... becomes a tagged
// variant on the action record plus an exhaustive match").
type DecodedCommand struct {
	Line int
	Kind CommandKind

	AddStructure   *AddStructureArgs
	SetBiome       *SetBiomeArgs
	EditTile       *EditTileArgs
	AddRoad        *AddRoadArgs
	MoveStructure  *MoveStructureArgs
	AddAnnotation  *AddAnnotationArgs
}

// CommandKind identifies which DSL command a DecodedCommand carries.
type CommandKind string

const (
	KindAddStructure  CommandKind = "ADD_STRUCTURE"
	KindSetBiome      CommandKind = "SET_BIOME"
	KindEditTile      CommandKind = "EDIT_TILE"
	KindAddRoad       CommandKind = "ADD_ROAD"
	KindMoveStructure CommandKind = "MOVE_STRUCTURE"
	KindAddAnnotation CommandKind = "ADD_ANNOTATION"
)

type AddStructureArgs struct {
	Type worldgen.StructureType
	X, Y int
	Name string
}

type SetBiomeArgs struct {
	X, Y  int
	Biome worldgen.Biome
}

type EditTileArgs struct {
	X, Y                            int
	Elevation, Moisture, Temperature *int
}

type AddRoadArgs struct {
	FromX, FromY, ToX, ToY int
}

type MoveStructureArgs struct {
	ID   string
	X, Y int
}

type AddAnnotationArgs struct {
	X, Y int
	Text string
}

// Decode coerces and validates a raw Command against its command-specific
// schema, failing with a Validation error citing the line number on an
// unknown command or missing/malformed argument (§4.E).
func Decode(c Command) (DecodedCommand, error) {
	switch c.Name {
	case string(KindAddStructure):
		typ, err := requireArg(c, "type")
		if err != nil {
			return DecodedCommand{}, err
		}
		x, err := requireInt(c, "x")
		if err != nil {
			return DecodedCommand{}, err
		}
		y, err := requireInt(c, "y")
		if err != nil {
			return DecodedCommand{}, err
		}
		name, err := requireArg(c, "name")
		if err != nil {
			return DecodedCommand{}, err
		}
		return DecodedCommand{Line: c.Line, Kind: KindAddStructure, AddStructure: &AddStructureArgs{
			Type: worldgen.StructureType(typ), X: x, Y: y, Name: name,
		}}, nil

	case string(KindSetBiome):
		x, err := requireInt(c, "x")
		if err != nil {
			return DecodedCommand{}, err
		}
		y, err := requireInt(c, "y")
		if err != nil {
			return DecodedCommand{}, err
		}
		biomeName, err := requireArg(c, "biome")
		if err != nil {
			return DecodedCommand{}, err
		}
		biome, ok := biomeFromName(biomeName)
		if !ok {
			return DecodedCommand{}, kernelerr.New(kernelerr.Validation, "line %d: unknown biome %q", c.Line, biomeName)
		}
		return DecodedCommand{Line: c.Line, Kind: KindSetBiome, SetBiome: &SetBiomeArgs{X: x, Y: y, Biome: biome}}, nil

	case string(KindEditTile):
		x, err := requireInt(c, "x")
		if err != nil {
			return DecodedCommand{}, err
		}
		y, err := requireInt(c, "y")
		if err != nil {
			return DecodedCommand{}, err
		}
		args := &EditTileArgs{X: x, Y: y}
		if v, ok := c.Args["elevation"]; ok {
			n, err := parseInt(v, c.Line, "elevation")
			if err != nil {
				return DecodedCommand{}, err
			}
			args.Elevation = &n
		}
		if v, ok := c.Args["moisture"]; ok {
			n, err := parseInt(v, c.Line, "moisture")
			if err != nil {
				return DecodedCommand{}, err
			}
			args.Moisture = &n
		}
		if v, ok := c.Args["temperature"]; ok {
			n, err := parseInt(v, c.Line, "temperature")
			if err != nil {
				return DecodedCommand{}, err
			}
			args.Temperature = &n
		}
		return DecodedCommand{Line: c.Line, Kind: KindEditTile, EditTile: args}, nil

	case string(KindAddRoad):
		fromX, err := requireInt(c, "fromX")
		if err != nil {
			return DecodedCommand{}, err
		}
		fromY, err := requireInt(c, "fromY")
		if err != nil {
			return DecodedCommand{}, err
		}
		toX, err := requireInt(c, "toX")
		if err != nil {
			return DecodedCommand{}, err
		}
		toY, err := requireInt(c, "toY")
		if err != nil {
			return DecodedCommand{}, err
		}
		return DecodedCommand{Line: c.Line, Kind: KindAddRoad, AddRoad: &AddRoadArgs{
			FromX: fromX, FromY: fromY, ToX: toX, ToY: toY,
		}}, nil

	case string(KindMoveStructure):
		id, err := requireArg(c, "id")
		if err != nil {
			return DecodedCommand{}, err
		}
		x, err := requireInt(c, "x")
		if err != nil {
			return DecodedCommand{}, err
		}
		y, err := requireInt(c, "y")
		if err != nil {
			return DecodedCommand{}, err
		}
		return DecodedCommand{Line: c.Line, Kind: KindMoveStructure, MoveStructure: &MoveStructureArgs{ID: id, X: x, Y: y}}, nil

	case string(KindAddAnnotation):
		x, err := requireInt(c, "x")
		if err != nil {
			return DecodedCommand{}, err
		}
		y, err := requireInt(c, "y")
		if err != nil {
			return DecodedCommand{}, err
		}
		text, err := requireArg(c, "text")
		if err != nil {
			return DecodedCommand{}, err
		}
		return DecodedCommand{Line: c.Line, Kind: KindAddAnnotation, AddAnnotation: &AddAnnotationArgs{X: x, Y: y, Text: text}}, nil

	default:
		return DecodedCommand{}, kernelerr.New(kernelerr.Validation, "line %d: unknown command %q", c.Line, c.Name)
	}
}

func requireArg(c Command, key string) (string, error) {
	v, ok := c.Args[key]
	if !ok || v == "" {
		return "", kernelerr.New(kernelerr.Validation, "line %d: %s is missing required argument %q", c.Line, c.Name, key)
	}
	return v, nil
}

func requireInt(c Command, key string) (int, error) {
	v, err := requireArg(c, key)
	if err != nil {
		return 0, err
	}
	return parseInt(v, c.Line, key)
}

func parseInt(v string, line int, key string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, kernelerr.New(kernelerr.Validation, "line %d: argument %q must be an integer, got %q", line, key, v)
	}
	return n, nil
}

func biomeFromName(name string) (worldgen.Biome, bool) {
	for b := worldgen.BiomeOcean; b <= worldgen.BiomeGlacier; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}
