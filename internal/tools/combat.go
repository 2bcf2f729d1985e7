package tools

import (
	"github.com/google/uuid"

	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/envelope"
	"github.com/tobyjaguar/rpgkernel/internal/kernel"
	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

// CombatCreateEncounterArgs is combat.createEncounter's input (§6).
type CombatCreateEncounterArgs struct {
	SessionID        string
	Seed             string
	Participants     []combat.ParticipantInput
	Obstacles        []spatial.Coord
	DifficultTerrain []spatial.Coord
}

// CombatCreateEncounterResult is combat.createEncounter's output (§6).
type CombatCreateEncounterResult struct {
	EncounterID string   `json:"encounterId"`
	TurnOrder   []string `json:"turnOrder"`
	Round       int      `json:"round"`
	CurrentTurn string   `json:"currentTurn"`
}

// CombatCreateEncounter rolls initiative and starts a new encounter
// scoped to args.SessionID (§4.D.2).
func CombatCreateEncounter(ctx *kernel.Context, args CombatCreateEncounterArgs) (CombatCreateEncounterResult, string, error) {
	out, err := ctx.Audit.Wrap("combat.createEncounter", args, func() (any, error) {
		if len(args.Participants) == 0 {
			return nil, kernelerr.New(kernelerr.Validation, "createEncounter requires at least one participant")
		}
		difficult := make(map[spatial.Coord]bool, len(args.DifficultTerrain))
		for _, c := range args.DifficultTerrain {
			difficult[c] = true
		}
		terrain := combat.TerrainInfo{
			Obstacles:        spatial.NewObstacleSet(args.Obstacles),
			DifficultTerrain: difficult,
		}

		id := uuid.NewString()
		stream := dice.New(args.Seed + "-" + id)
		e := combat.StartEncounter(id, args.SessionID, stream, terrain, args.Participants, ctx.Bus)
		ctx.PutEncounter(args.SessionID, e)
		if err := ctx.Store.SaveEncounter(e); err != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, err, "persist new encounter")
		}

		return CombatCreateEncounterResult{
			EncounterID: e.ID,
			TurnOrder:   e.TurnOrder,
			Round:       e.Round,
			CurrentTurn: e.TurnOrder[e.CurrentTurnIndex],
		}, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return CombatCreateEncounterResult{}, text, firstErr(err, envErr)
	}
	res := out.(CombatCreateEncounterResult)
	text, envErr := envelope.WithState("Encounter started.", res)
	return res, text, envErr
}

// CombatGetEncounterStateArgs is combat.getEncounterState's input (§6).
type CombatGetEncounterStateArgs struct {
	SessionID   string
	EncounterID string
}

// CombatGetEncounterState returns the full live state record for a
// registered encounter (§6 "full state record").
func CombatGetEncounterState(ctx *kernel.Context, args CombatGetEncounterStateArgs) (*combat.Encounter, string, error) {
	out, err := ctx.Audit.Wrap("combat.getEncounterState", args, func() (any, error) {
		e, ok := ctx.GetEncounter(args.SessionID, args.EncounterID)
		if !ok {
			return nil, kernelerr.NotFoundf("encounter", args.EncounterID)
		}
		return e, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return nil, text, firstErr(err, envErr)
	}
	e := out.(*combat.Encounter)
	text, envErr := envelope.WithState("Encounter state retrieved.", e)
	return e, text, envErr
}

// CombatExecuteActionArgs is combat.executeAction's input (§6): Action
// selects attack/heal/move/disengage/dash; only the fields that action
// needs are read.
type CombatExecuteActionArgs struct {
	SessionID    string
	EncounterID  string
	Action       string
	ActorID      string
	TargetID     string
	Target       spatial.Coord
	Amount       int
	AttackBonus  int
	DC           int
	DamageDice   int
	DamageSides  int
	DamageMod    int
	DamageType   string
	IsMelee      bool
	Advantage    bool
	Disadvantage bool
}

// CombatActionResult holds whichever trace combat.executeAction's
// underlying action produced; exactly one field is non-nil for
// attack/heal/move, and none for dash/disengage (§6 "result record with
// full roll trace").
type CombatActionResult struct {
	Attack *combat.AttackResult `json:"attack,omitempty"`
	Heal   *combat.HealResult   `json:"heal,omitempty"`
	Move   *combat.MoveResult   `json:"move,omitempty"`
}

// CombatExecuteAction dispatches one combat action against a live
// encounter, returning its full roll trace (§4.D.4).
func CombatExecuteAction(ctx *kernel.Context, args CombatExecuteActionArgs) (CombatActionResult, string, error) {
	out, err := ctx.Audit.Wrap("combat.executeAction", args, func() (any, error) {
		e, ok := ctx.GetEncounter(args.SessionID, args.EncounterID)
		if !ok {
			return nil, kernelerr.NotFoundf("encounter", args.EncounterID)
		}

		var result CombatActionResult
		var err error
		switch args.Action {
		case "attack":
			result.Attack, err = e.Attack(combat.AttackInput{
				AttackerID: args.ActorID, TargetID: args.TargetID,
				AttackBonus: args.AttackBonus, DC: args.DC,
				DamageDiceCount: args.DamageDice, DamageDiceSides: args.DamageSides,
				DamageModifier: args.DamageMod, DamageType: args.DamageType,
				IsMelee: args.IsMelee, Advantage: args.Advantage, Disadvantage: args.Disadvantage,
			}, ctx.Bus)
		case "heal":
			result.Heal, err = e.Heal(args.ActorID, args.TargetID, args.Amount, ctx.Bus)
		case "move":
			result.Move, err = e.Move(args.ActorID, args.Target, ctx.Bus)
		case "dash":
			err = e.Dash(args.ActorID)
		case "disengage":
			err = e.Disengage(args.ActorID)
		default:
			err = kernelerr.New(kernelerr.Validation, "unknown action %q", args.Action)
		}
		if err != nil {
			return nil, err
		}
		if saveErr := ctx.Store.SaveEncounter(e); saveErr != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, saveErr, "persist encounter after action")
		}
		return result, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return CombatActionResult{}, text, firstErr(err, envErr)
	}
	res := out.(CombatActionResult)
	text, envErr := envelope.WithState("Action executed.", res)
	return res, text, envErr
}

// CombatAdvanceTurnArgs is combat.advanceTurn's input (§6).
type CombatAdvanceTurnArgs struct {
	SessionID   string
	EncounterID string
}

// CombatAdvanceTurnResult is combat.advanceTurn's output (§6).
type CombatAdvanceTurnResult struct {
	PreviousTurn string `json:"previousTurn"`
	CurrentTurn  string `json:"currentTurn"`
	Round        int    `json:"round"`
}

// CombatAdvanceTurn moves the encounter to the next turn slot (§4.D.1).
func CombatAdvanceTurn(ctx *kernel.Context, args CombatAdvanceTurnArgs) (CombatAdvanceTurnResult, string, error) {
	out, err := ctx.Audit.Wrap("combat.advanceTurn", args, func() (any, error) {
		e, ok := ctx.GetEncounter(args.SessionID, args.EncounterID)
		if !ok {
			return nil, kernelerr.NotFoundf("encounter", args.EncounterID)
		}
		previous := e.TurnOrder[e.CurrentTurnIndex]
		if err := e.AdvanceTurn(ctx.Bus); err != nil {
			return nil, err
		}
		if err := ctx.Store.SaveEncounter(e); err != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, err, "persist encounter after turn advance")
		}
		return CombatAdvanceTurnResult{
			PreviousTurn: previous,
			CurrentTurn:  e.TurnOrder[e.CurrentTurnIndex],
			Round:        e.Round,
		}, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return CombatAdvanceTurnResult{}, text, firstErr(err, envErr)
	}
	res := out.(CombatAdvanceTurnResult)
	text, envErr := envelope.WithState("Turn advanced.", res)
	return res, text, envErr
}

// CombatEndEncounterArgs is combat.endEncounter's input (§6).
type CombatEndEncounterArgs struct {
	SessionID   string
	EncounterID string
}

// CombatEndEncounterResult reports which characters had hp synced back
// and to what value (§6 "summary of synced hp").
type CombatEndEncounterResult struct {
	SyncedHP map[string]int `json:"syncedHP"`
}

// CombatEndEncounter syncs participant hp back to their source
// characters, clears auras, and evicts the encounter from the live
// registry (§4.D.9).
func CombatEndEncounter(ctx *kernel.Context, args CombatEndEncounterArgs) (CombatEndEncounterResult, string, error) {
	out, err := ctx.Audit.Wrap("combat.endEncounter", args, func() (any, error) {
		e, ok := ctx.GetEncounter(args.SessionID, args.EncounterID)
		if !ok {
			return nil, kernelerr.NotFoundf("encounter", args.EncounterID)
		}

		synced := make(map[string]int)
		e.EndEncounter(func(characterID string, hp int) {
			if err := ctx.Store.SyncCharacterHP(characterID, hp); err != nil {
				synced[characterID] = -1
				return
			}
			synced[characterID] = hp
		})
		if err := ctx.Store.SaveEncounter(e); err != nil {
			return nil, kernelerr.Wrap(kernelerr.Persistence, err, "persist completed encounter")
		}
		ctx.RemoveEncounter(args.SessionID, args.EncounterID)
		return CombatEndEncounterResult{SyncedHP: synced}, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return CombatEndEncounterResult{}, text, firstErr(err, envErr)
	}
	res := out.(CombatEndEncounterResult)
	text, envErr := envelope.WithState("Encounter ended.", res)
	return res, text, envErr
}
