// Package tools implements the kernel's tool surface (§6): one exported
// function per tool, each taking a *kernel.Context and a typed argument
// struct and returning a typed result, the STATE_JSON text envelope, and
// an error. Registry glue and transport framers are out of scope (§1);
// callers invoke these functions directly, as cmd/kernel/main.go does.
package tools

import (
	"github.com/tobyjaguar/rpgkernel/internal/envelope"
	"github.com/tobyjaguar/rpgkernel/internal/kernel"
	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
	"github.com/tobyjaguar/rpgkernel/internal/mappatch"
	"github.com/tobyjaguar/rpgkernel/internal/persistence"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

// WorldGenerateArgs is world.generate's input (§6).
type WorldGenerateArgs struct {
	Seed        string
	Width       int
	Height      int
	LandRatio   float64
	Octaves     int
	TempOffset  int
	MoistOffset int
}

// WorldGenerateResult is world.generate's output contract (§6).
type WorldGenerateResult struct {
	WorldID        string `json:"worldId"`
	TileCount      int    `json:"tileCount"`
	RegionCount    int    `json:"regionCount"`
	StructureCount int    `json:"structureCount"`
}

// WorldGenerate runs the world generation pipeline and persists the
// result, returning the typed result plus the §6 tool-call text envelope.
func WorldGenerate(ctx *kernel.Context, args WorldGenerateArgs) (WorldGenerateResult, string, error) {
	out, err := ctx.Audit.Wrap("world.generate", args, func() (any, error) {
		result, err := worldgen.Generate(worldgen.GenConfig{
			Seed: args.Seed, Width: args.Width, Height: args.Height,
			LandRatio: args.LandRatio, Octaves: args.Octaves,
			TempOffset: args.TempOffset, MoistOffset: args.MoistOffset,
		})
		if err != nil {
			return nil, err
		}
		if err := ctx.Store.SaveWorld(result.World); err != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, err, "persist generated world")
		}
		ctx.Bus.Publish(worldGeneratedEvent(result))
		return WorldGenerateResult{
			WorldID:        result.World.ID,
			TileCount:      result.TileCount,
			RegionCount:    result.RegionCount,
			StructureCount: result.StructureCount,
		}, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return WorldGenerateResult{}, text, firstErr(err, envErr)
	}
	res := out.(WorldGenerateResult)
	text, envErr := envelope.WithState(humanSummaryWorldGenerated(res), res)
	return res, text, envErr
}

// WorldGetStateArgs is world.getState's input (§6).
type WorldGetStateArgs struct {
	WorldID string
}

// WorldGetState returns a world's summary without loading every tile
// into memory (§6 "biome histogram, structure count, seed, dimensions").
func WorldGetState(ctx *kernel.Context, args WorldGetStateArgs) (*persistence.WorldState, string, error) {
	out, err := ctx.Audit.Wrap("world.getState", args, func() (any, error) {
		return ctx.Store.GetWorldState(args.WorldID)
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return nil, text, firstErr(err, envErr)
	}
	state := out.(*persistence.WorldState)
	text, envErr := envelope.WithState("World state retrieved.", state)
	return state, text, envErr
}

// WorldMapPatchPreviewArgs is world.mapPatch.preview's input (§6).
type WorldMapPatchPreviewArgs struct {
	WorldID string
	Script  string
}

// WorldMapPatchPreview decodes a patch script against the named world
// without mutating it (§4.E).
func WorldMapPatchPreview(ctx *kernel.Context, args WorldMapPatchPreviewArgs) (*mappatch.PreviewResult, string, error) {
	out, err := ctx.Audit.Wrap("world.mapPatch.preview", args, func() (any, error) {
		w, err := ctx.Store.LoadWorld(args.WorldID)
		if err != nil {
			return nil, err
		}
		return mappatch.Preview(w, args.Script)
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return nil, text, firstErr(err, envErr)
	}
	result := out.(*mappatch.PreviewResult)
	text, envErr := envelope.WithState("Patch previewed.", result)
	return result, text, envErr
}

// WorldMapPatchApplyArgs is world.mapPatch.apply's input (§6).
type WorldMapPatchApplyArgs struct {
	WorldID string
	Script  string
}

// WorldMapPatchApply runs a patch script atomically against the named
// world and persists the result (§4.E, §8 invariant 7).
func WorldMapPatchApply(ctx *kernel.Context, args WorldMapPatchApplyArgs) (*mappatch.ApplyResult, string, error) {
	out, err := ctx.Audit.Wrap("world.mapPatch.apply", args, func() (any, error) {
		w, err := ctx.Store.LoadWorld(args.WorldID)
		if err != nil {
			return nil, err
		}
		result, err := mappatch.Apply(w, args.Script)
		if err != nil {
			return nil, err
		}
		if err := ctx.Store.SaveWorld(w); err != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, err, "persist patched world")
		}
		return result, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return nil, text, firstErr(err, envErr)
	}
	result := out.(*mappatch.ApplyResult)
	text, envErr := envelope.WithState("Patch applied.", result)
	return result, text, envErr
}

func envelopeForError(err error) (string, error) {
	kind, ok := kernelerr.KindOf(err)
	kindStr := string(kind)
	if !ok {
		kindStr = "Unknown"
	}
	return envelope.ErrorEnvelope(kindStr, err.Error())
}

// firstErr returns the dispatch error when present, since that is what
// callers should branch on; a failure building the envelope itself is
// reported only when dispatch otherwise succeeded.
func firstErr(dispatchErr, envelopeErr error) error {
	if dispatchErr != nil {
		return dispatchErr
	}
	return envelopeErr
}
