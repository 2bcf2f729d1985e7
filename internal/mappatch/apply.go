package mappatch

import (
	"github.com/google/uuid"

	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

// PreviewResult reports the decoded commands and whether applying them
// would modify the world, without mutating anything (§4.E).
type PreviewResult struct {
	Commands    []DecodedCommand
	WillModify  bool
}

// Preview tokenizes and decodes script against w without mutating it
// (§4.E). A tokenize/decode failure still returns the error; it is the
// caller's responsibility to surface it before offering Apply.
func Preview(w *worldgen.World, script string) (*PreviewResult, error) {
	commands, err := decodeAll(script)
	if err != nil {
		return nil, err
	}
	willModify := len(commands) > 0
	return &PreviewResult{Commands: commands, WillModify: willModify}, nil
}

// ApplyResult reports the outcome of a successful Apply (§4.E).
type ApplyResult struct {
	CommandsExecuted int
	NewTileCount     int
	NewStructureCount int
	NewRoadCount      int
	NewAnnotationCount int
}

// Apply runs every decoded command from script against w atomically: if any
// command fails validation or a spatial bounds check, nothing is written
// (§4.E, §8 invariant 7). A successful apply returns the number of commands
// executed and the world's resulting tile, structure, road and annotation
// totals.
func Apply(w *worldgen.World, script string) (*ApplyResult, error) {
	commands, err := decodeAll(script)
	if err != nil {
		return nil, err
	}

	// Work against a scratch copy so a failure partway through never
	// mutates the caller's world (§4.E: "if any command fails ... nothing
	// is written").
	scratch := cloneWorld(w)
	for _, cmd := range commands {
		if err := applyOne(scratch, cmd); err != nil {
			return nil, err
		}
	}

	*w = *scratch
	return &ApplyResult{
		CommandsExecuted:   len(commands),
		NewTileCount:       len(w.Tiles),
		NewStructureCount:  len(w.Structures),
		NewRoadCount:       len(w.Roads),
		NewAnnotationCount: len(w.Annotations),
	}, nil
}

func decodeAll(script string) ([]DecodedCommand, error) {
	tokens, err := Tokenize(script)
	if err != nil {
		return nil, err
	}
	commands := make([]DecodedCommand, 0, len(tokens))
	for _, t := range tokens {
		d, err := Decode(t)
		if err != nil {
			return nil, err
		}
		commands = append(commands, d)
	}
	return commands, nil
}

// cloneWorld makes a shallow-deep copy sufficient for atomic patch
// application: tiles and structures are copied individually (mutated in
// place by EDIT_TILE/SET_BIOME and MOVE_STRUCTURE), while the road and
// annotation slices are copied so appends don't alias the original.
func cloneWorld(w *worldgen.World) *worldgen.World {
	clone := *w
	clone.Tiles = make(map[worldgen.Coord]*worldgen.Tile, len(w.Tiles))
	for c, t := range w.Tiles {
		tileCopy := *t
		clone.Tiles[c] = &tileCopy
	}
	clone.Structures = append([]*worldgen.Structure(nil), w.Structures...)
	for i, s := range clone.Structures {
		structCopy := *s
		clone.Structures[i] = &structCopy
	}
	clone.Roads = append([]*worldgen.Road(nil), w.Roads...)
	clone.Annotations = append([]*worldgen.Annotation(nil), w.Annotations...)
	return &clone
}

func applyOne(w *worldgen.World, cmd DecodedCommand) error {
	switch cmd.Kind {
	case KindAddStructure:
		return applyAddStructure(w, cmd.Line, cmd.AddStructure)
	case KindSetBiome:
		return applySetBiome(w, cmd.Line, cmd.SetBiome)
	case KindEditTile:
		return applyEditTile(w, cmd.Line, cmd.EditTile)
	case KindAddRoad:
		return applyAddRoad(w, cmd.Line, cmd.AddRoad)
	case KindMoveStructure:
		return applyMoveStructure(w, cmd.Line, cmd.MoveStructure)
	case KindAddAnnotation:
		return applyAddAnnotation(w, cmd.Line, cmd.AddAnnotation)
	default:
		return kernelerr.New(kernelerr.Validation, "line %d: unhandled command kind %q", cmd.Line, cmd.Kind)
	}
}

func inBounds(w *worldgen.World, x, y, line int) error {
	if !w.InBounds(x, y) {
		return kernelerr.New(kernelerr.Spatial, "line %d: (%d,%d) is outside the world bounds %dx%d", line, x, y, w.Width, w.Height)
	}
	return nil
}

func applyAddStructure(w *worldgen.World, line int, a *AddStructureArgs) error {
	if err := inBounds(w, a.X, a.Y, line); err != nil {
		return err
	}
	w.Structures = append(w.Structures, &worldgen.Structure{
		ID: uuid.NewString(), WorldID: w.ID, Type: a.Type, X: a.X, Y: a.Y, Name: a.Name,
	})
	return nil
}

func applySetBiome(w *worldgen.World, line int, a *SetBiomeArgs) error {
	if err := inBounds(w, a.X, a.Y, line); err != nil {
		return err
	}
	tile := w.Tiles[worldgen.Coord{X: a.X, Y: a.Y}]
	if tile == nil {
		return kernelerr.New(kernelerr.NotFound, "line %d: no tile at (%d,%d)", line, a.X, a.Y)
	}
	tile.Biome = a.Biome
	return nil
}

func applyEditTile(w *worldgen.World, line int, a *EditTileArgs) error {
	if err := inBounds(w, a.X, a.Y, line); err != nil {
		return err
	}
	tile := w.Tiles[worldgen.Coord{X: a.X, Y: a.Y}]
	if tile == nil {
		return kernelerr.New(kernelerr.NotFound, "line %d: no tile at (%d,%d)", line, a.X, a.Y)
	}
	if a.Elevation != nil {
		tile.Elevation = *a.Elevation
	}
	if a.Moisture != nil {
		tile.Moisture = *a.Moisture
	}
	if a.Temperature != nil {
		tile.Temperature = *a.Temperature
	}
	tile.Biome = worldgen.AssignBiome(tile.Elevation, tile.Moisture, tile.Temperature)
	return nil
}

func applyAddRoad(w *worldgen.World, line int, a *AddRoadArgs) error {
	if err := inBounds(w, a.FromX, a.FromY, line); err != nil {
		return err
	}
	if err := inBounds(w, a.ToX, a.ToY, line); err != nil {
		return err
	}
	w.Roads = append(w.Roads, &worldgen.Road{WorldID: w.ID, FromX: a.FromX, FromY: a.FromY, ToX: a.ToX, ToY: a.ToY})
	return nil
}

func applyMoveStructure(w *worldgen.World, line int, a *MoveStructureArgs) error {
	if err := inBounds(w, a.X, a.Y, line); err != nil {
		return err
	}
	for _, s := range w.Structures {
		if s.ID == a.ID {
			s.X, s.Y = a.X, a.Y
			return nil
		}
	}
	return kernelerr.New(kernelerr.NotFound, "line %d: no structure with id %q", line, a.ID)
}

func applyAddAnnotation(w *worldgen.World, line int, a *AddAnnotationArgs) error {
	if err := inBounds(w, a.X, a.Y, line); err != nil {
		return err
	}
	w.Annotations = append(w.Annotations, &worldgen.Annotation{WorldID: w.ID, X: a.X, Y: a.Y, Text: a.Text})
	return nil
}
