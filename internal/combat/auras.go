package combat

import (
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

// RegisterAura attaches an aura to its owner; it will be re-evaluated on
// the next movement commit or turn boundary (§4.D.7).
func (e *Encounter) RegisterAura(a *Aura) error {
	if _, ok := e.Participants[a.OwnerID]; !ok {
		return notFound("participant", a.OwnerID)
	}
	a.Inside = make(map[string]bool)
	e.Auras[a.ID] = a
	if a.ConcentrationID != "" {
		if c, ok := e.Concentrations[a.ConcentrationID]; ok {
			c.AuraIDs = append(c.AuraIDs, a.ID)
		}
	}
	return nil
}

// reevaluateAuras recomputes, for every registered aura, which
// participants currently fall within its radius (via the spatial engine's
// sphere test), firing enter/exit effects for the participants whose
// membership changed (§4.D.7).
func (e *Encounter) reevaluateAuras(bus *events.Bus) {
	if len(e.Auras) == 0 {
		return
	}
	positions := e.Positions()
	for _, aura := range e.Auras {
		owner, ok := e.Participants[aura.OwnerID]
		if !ok {
			continue
		}
		hits := spatial.Sphere(positions, owner.Position, aura.RadiusFeet, "")
		nowInside := make(map[string]bool, len(hits))
		for _, id := range hits {
			if id == aura.OwnerID && !aura.IncludeOwner {
				continue
			}
			p := e.Participants[id]
			if p == nil {
				continue
			}
			if p.IsEnemy == owner.IsEnemy && !aura.IncludeAllies {
				continue
			}
			if p.IsEnemy != owner.IsEnemy && !aura.IncludeEnemies {
				continue
			}
			nowInside[id] = true
		}

		for id := range nowInside {
			if !aura.Inside[id] {
				e.fireAuraTrigger(aura, id, AuraTriggerEnter, bus)
			}
		}
		for id := range aura.Inside {
			if !nowInside[id] {
				e.fireAuraTrigger(aura, id, AuraTriggerExit, bus)
			}
		}
		aura.Inside = nowInside
	}
}

// fireTurnBoundaryAuras fires start_of_turn/end_of_turn aura effects for
// every participant currently inside an aura that triggers on phase
// (§4.D.7).
func (e *Encounter) fireTurnBoundaryAuras(phase AuraTrigger, bus *events.Bus) {
	for _, aura := range e.Auras {
		for id := range aura.Inside {
			e.fireAuraTrigger(aura, id, phase, bus)
		}
	}
}

func (e *Encounter) fireAuraTrigger(aura *Aura, participantID string, trigger AuraTrigger, bus *events.Bus) {
	p := e.Participants[participantID]
	if p == nil {
		return
	}
	for _, effect := range aura.Effects {
		if effect.Trigger != trigger {
			continue
		}
		if effect.SaveDC > 0 {
			roll := e.Dice.D20(effect.SaveAbilityMod)
			if roll.Total >= effect.SaveDC {
				continue // save succeeded, effect negated
			}
		}
		amount := effect.Amount
		if effect.DiceCount > 0 {
			amount += e.Dice.RollExpr(effect.DiceCount, effect.DiceSides, 0).Total
		}
		if effect.IsHealing {
			applyHealing(p, amount)
		} else {
			applyDamage(p, amount)
			if p.HP == 0 {
				p.Defeated = true
			}
		}
		if effect.ConditionToApply != nil {
			p.Conditions = append(p.Conditions, &Condition{
				Type:            *effect.ConditionToApply,
				Duration:        DurationPermanent,
				ConcentrationID: aura.ConcentrationID,
				SourceID:        aura.OwnerID,
			})
		}

		if bus != nil {
			bus.Publish(events.Event{
				Topic:     "combat",
				Type:      "aura_effect_fired",
				SessionID: e.SessionID,
				Payload: map[string]any{
					"encounterId":   e.ID,
					"auraId":        aura.ID,
					"participantId": participantID,
					"trigger":       trigger,
				},
			})
		}
	}
}
