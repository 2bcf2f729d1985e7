package combat

import (
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

// ActionKind identifies which action-economy slot an action consumes (§4.D.3).
type ActionKind string

const (
	ActionKindAction   ActionKind = "action"
	ActionKindBonus    ActionKind = "bonus_action"
	ActionKindReaction ActionKind = "reaction"
)

// canTakeActionType validates that it is this participant's turn (except
// for reactions), the relevant slot is unused, and no incapacitating
// condition blocks it (§4.D.3).
func (e *Encounter) canTakeActionType(participantID string, kind ActionKind) error {
	p, ok := e.Participants[participantID]
	if !ok {
		return notFound("participant", participantID)
	}
	if p.Defeated {
		return actionEconomyErr("participant %q is defeated", participantID)
	}
	if p.isIncapacitated() {
		return actionEconomyErr("participant %q is incapacitated and cannot act", participantID)
	}
	if kind != ActionKindReaction {
		active := e.ActiveParticipant()
		if active == nil || active.ID != participantID {
			return actionEconomyErr("it is not %q's turn", participantID)
		}
	}
	switch kind {
	case ActionKindAction:
		if p.ActionUsed {
			return actionEconomyErr("participant %q has already used their action this turn", participantID)
		}
	case ActionKindBonus:
		if p.BonusActionUsed {
			return actionEconomyErr("participant %q has already used their bonus action this turn", participantID)
		}
	case ActionKindReaction:
		if p.ReactionUsed {
			return actionEconomyErr("participant %q has already used their reaction this round", participantID)
		}
	}
	return nil
}

// AttackInput is the caller-supplied parameters for an Attack (§4.D.4).
type AttackInput struct {
	AttackerID      string
	TargetID        string
	AttackBonus     int
	DC              int
	DamageDiceCount int
	DamageDiceSides int
	DamageModifier  int
	DamageType      string
	IsMelee         bool
	Advantage       bool
	Disadvantage    bool
}

// AttackResult is the full trace an attack resolution emits (§4.D.4 step 6).
type AttackResult struct {
	Roll       dice.D20Result
	Degree     dice.Degree
	Hit        bool
	RawDamage  int
	FinalDamage int
	HPBefore   int
	HPAfter    int
	Defeated   bool
}

// Attack resolves a single attack roll against a target, consuming the
// attacker's action (§4.D.4). It is never applied on a failed precondition;
// state is only mutated once validation and the roll both succeed.
func (e *Encounter) Attack(in AttackInput, bus *events.Bus) (*AttackResult, error) {
	if err := e.canTakeActionType(in.AttackerID, ActionKindAction); err != nil {
		return nil, err
	}
	attacker := e.Participants[in.AttackerID]
	target, ok := e.Participants[in.TargetID]
	if !ok {
		return nil, notFound("participant", in.TargetID)
	}

	advantage, disadvantage := attackAdvantage(attacker, target, in.IsMelee, in.Advantage, in.Disadvantage)
	roll := e.Dice.RollD20(in.AttackBonus, advantage, disadvantage)
	degree := dice.CheckDegree(roll, in.DC)
	attacker.ActionUsed = true

	hit := degree == dice.Success || degree == dice.CriticalSuccess
	res := &AttackResult{Roll: roll, Degree: degree, Hit: hit, HPBefore: target.HP}

	if hit {
		diceCount := in.DamageDiceCount
		if degree == dice.CriticalSuccess {
			diceCount *= 2 // only the dice double on a crit, not the flat modifier (§4.D.4 step 4)
		}
		dmgRoll := e.Dice.RollExpr(diceCount, in.DamageDiceSides, in.DamageModifier)
		res.RawDamage = dmgRoll.Total

		// Damage-type scaling is derived from the target's own recorded
		// resistance data, never a caller-supplied flag (§4.D.4 step 4).
		final := res.RawDamage
		switch {
		case target.Immunities[in.DamageType]:
			final = 0
		case target.Vulnerabilities[in.DamageType]:
			final *= 2
		case target.Resistances[in.DamageType]:
			final /= 2
		}
		res.FinalDamage = final

		applyDamage(target, final)
		if target.HP == 0 {
			target.Defeated = true
			res.Defeated = true
		}
		if final > 0 {
			e.CheckConcentration(target.ID, final, target.AbilityMods["con"], bus)
		}
	}
	res.HPAfter = target.HP

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "attack_executed",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId": e.ID,
				"attackerId":  in.AttackerID,
				"targetId":    in.TargetID,
				"roll":        roll,
				"degree":      degree,
				"hit":         hit,
				"damage":      res.FinalDamage,
				"hpBefore":    res.HPBefore,
				"hpAfter":     res.HPAfter,
			},
		})
	}
	return res, nil
}

// HealResult reports the hp before/after and any wasted overflow (§4.D.4).
type HealResult struct {
	HPBefore int
	HPAfter  int
	Overflow int
}

// Heal clamps healing to [hp, maxHp], recording wasted overflow (§4.D.4).
func (e *Encounter) Heal(actorID, targetID string, amount int, bus *events.Bus) (*HealResult, error) {
	if _, ok := e.Participants[actorID]; !ok {
		return nil, notFound("participant", actorID)
	}
	target, ok := e.Participants[targetID]
	if !ok {
		return nil, notFound("participant", targetID)
	}

	before := target.HP
	uncapped := before + amount
	applyHealing(target, amount)
	overflow := uncapped - target.HP
	if overflow < 0 {
		overflow = 0
	}
	res := &HealResult{HPBefore: before, HPAfter: target.HP, Overflow: overflow}

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "heal_executed",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId": e.ID,
				"actorId":     actorID,
				"targetId":    targetID,
				"hpBefore":    res.HPBefore,
				"hpAfter":     res.HPAfter,
				"overflow":    res.Overflow,
			},
		})
	}
	return res, nil
}

// MoveResult reports the actor's final position and distance traveled,
// plus any opportunity attacks that were resolved along the way (§4.D.4).
type MoveResult struct {
	FinalPosition      spatial.Coord
	DistanceFeet       int
	OpportunityAttacks []*AttackResult
	HaltedEarly        bool
}

// Move resolves movement toward targetPosition, triggering opportunity
// attacks from hostile participants whose threat range the actor leaves
// without disengaging (§4.D.4). Each step into a tile marked difficult in
// the encounter's terrain costs 10 ft instead of 5 ft.
func (e *Encounter) Move(actorID string, target spatial.Coord, bus *events.Bus) (*MoveResult, error) {
	actor, ok := e.Participants[actorID]
	if !ok {
		return nil, notFound("participant", actorID)
	}
	if actor.Defeated {
		return nil, actionEconomyErr("participant %q is defeated", actorID)
	}

	for _, sourceID := range actor.frightenedSources() {
		source, ok := e.Participants[sourceID]
		if !ok {
			continue
		}
		if spatial.Chebyshev(target, source.Position) < spatial.Chebyshev(actor.Position, source.Position) {
			return nil, movementErr("participant %q is frightened and cannot move closer to %q", actorID, sourceID)
		}
	}

	obstacles := e.obstacleSet(actorID)
	path, found := spatial.FindPath(actor.Position, target, obstacles)
	if !found {
		return nil, spatialErr("no path from %v to %v", actor.Position, target)
	}

	distanceFeet := 0
	for i := 1; i < len(path); i++ {
		step := spatial.FeetPerTile
		if e.Terrain.DifficultTerrain[path[i]] {
			step *= 2
		}
		distanceFeet += step
	}
	if distanceFeet > actor.MovementRemaining {
		return nil, movementErr("insufficient movement: need %d ft, have %d ft", distanceFeet, actor.MovementRemaining)
	}

	prePosition := actor.Position
	opportunists := e.opportunityAttackers(actor, prePosition, target)

	res := &MoveResult{FinalPosition: target, DistanceFeet: distanceFeet}
	for _, attackerID := range opportunists {
		if actor.Defeated {
			break
		}
		attacker := e.Participants[attackerID]
		oaResult, err := e.resolveOpportunityAttack(attacker, actor, bus)
		if err == nil {
			res.OpportunityAttacks = append(res.OpportunityAttacks, oaResult)
		}
	}

	if actor.Defeated {
		actor.Position = prePosition
		res.FinalPosition = prePosition
		res.HaltedEarly = true
		return res, nil
	}

	actor.Position = target
	actor.MovementRemaining -= distanceFeet
	e.reevaluateAuras(bus)

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "move_executed",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId": e.ID,
				"actorId":     actorID,
				"from":        prePosition,
				"to":          target,
				"distanceFt":  distanceFeet,
			},
		})
	}
	return res, nil
}

// opportunityAttackers enumerates hostile participants with an unused
// reaction whose 8-neighborhood contains 'from' but not 'to', unless the
// mover has disengaged (§4.D.4 step 4). Returned in turnOrder sequence.
func (e *Encounter) opportunityAttackers(mover *Participant, from, to spatial.Coord) []string {
	if mover.HasDisengaged {
		return nil
	}
	var out []string
	for _, id := range e.TurnOrder {
		p := e.Participants[id]
		if p == nil || p.ID == mover.ID || p.Defeated || p.ReactionUsed {
			continue
		}
		if p.IsEnemy == mover.IsEnemy {
			continue
		}
		if !withinThreatRange(p.Position, from) {
			continue
		}
		if withinThreatRange(p.Position, to) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func withinThreatRange(center, target spatial.Coord) bool {
	if center == target {
		return true
	}
	for _, n := range worldgen.Neighbors8(center) {
		if n == target {
			return true
		}
	}
	return false
}

func (e *Encounter) resolveOpportunityAttack(attacker, target *Participant, bus *events.Bus) (*AttackResult, error) {
	attacker.ReactionUsed = true
	advantage, disadvantage := attackAdvantage(attacker, target, true, false, false)
	roll := e.Dice.RollD20(standardOpportunityAttackBonus, advantage, disadvantage)
	degree := dice.CheckDegree(roll, standardOpportunityAttackDC)
	hit := degree == dice.Success || degree == dice.CriticalSuccess

	res := &AttackResult{Roll: roll, Degree: degree, Hit: hit, HPBefore: target.HP}
	if hit {
		diceCount := standardOpportunityDamageDice
		if degree == dice.CriticalSuccess {
			diceCount *= 2
		}
		dmgRoll := e.Dice.RollExpr(diceCount, standardOpportunityDamageSides, standardOpportunityDamageMod)
		res.RawDamage = dmgRoll.Total
		res.FinalDamage = dmgRoll.Total
		applyDamage(target, res.FinalDamage)
		if target.HP == 0 {
			target.Defeated = true
			res.Defeated = true
		}
	}
	res.HPAfter = target.HP

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "opportunity_attack_executed",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId": e.ID,
				"attackerId":  attacker.ID,
				"targetId":    target.ID,
				"hit":         hit,
				"damage":      res.FinalDamage,
			},
		})
	}
	return res, nil
}

// Standard opportunity-attack values used when resolving a reaction attack
// triggered by movement (§4.D.4: "their single attack action at standard
// values").
const (
	standardOpportunityAttackBonus  = 4
	standardOpportunityAttackDC     = 12
	standardOpportunityDamageDice   = 1
	standardOpportunityDamageSides  = 6
	standardOpportunityDamageMod    = 2
)

// Dash consumes the action, adding movementSpeed to movementRemaining and
// flagging hasDashed (§4.D.4).
func (e *Encounter) Dash(participantID string) error {
	if err := e.canTakeActionType(participantID, ActionKindAction); err != nil {
		return err
	}
	p := e.Participants[participantID]
	p.ActionUsed = true
	p.MovementRemaining += p.effectiveSpeed()
	p.HasDashed = true
	return nil
}

// Disengage consumes the action and flags hasDisengaged until end of turn
// (§4.D.4).
func (e *Encounter) Disengage(participantID string) error {
	if err := e.canTakeActionType(participantID, ActionKindAction); err != nil {
		return err
	}
	p := e.Participants[participantID]
	p.ActionUsed = true
	p.HasDisengaged = true
	return nil
}
