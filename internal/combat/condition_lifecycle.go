package combat

import (
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
)

// ApplyCondition attaches a condition instance to a participant (§4.D.5).
func (e *Encounter) ApplyCondition(participantID string, c *Condition) error {
	p, ok := e.Participants[participantID]
	if !ok {
		return notFound("participant", participantID)
	}
	p.Conditions = append(p.Conditions, c)
	return nil
}

// removeConditionAt detaches the condition at index i from participant p.
func removeConditionAt(p *Participant, i int) {
	p.Conditions = append(p.Conditions[:i], p.Conditions[i+1:]...)
}

// processStartOfTurn runs §4.D.5's start-of-turn condition processing for
// p: fires start_of_turn ongoing effects, decrements `rounds` counters
// (expiring at 0), and removes `start_of_turn`-duration conditions after
// their effect fires.
func (e *Encounter) processStartOfTurn(p *Participant, bus *events.Bus) {
	var remaining []*Condition
	for _, c := range p.Conditions {
		e.fireOngoing(p, c, DurationStartOfTurn, bus)

		switch c.Duration {
		case DurationStartOfTurn:
			continue // removed after firing
		case DurationRounds:
			c.RoundsRemaining--
			if c.RoundsRemaining <= 0 {
				continue // expired
			}
		}
		remaining = append(remaining, c)
	}
	p.Conditions = remaining
}

// processEndOfTurn runs §4.D.5's end-of-turn processing: fires
// end_of_turn ongoing effects, removes `end_of_turn`-duration conditions
// after firing, and resolves `save_ends` conditions by rolling a save.
func (e *Encounter) processEndOfTurn(p *Participant, bus *events.Bus) {
	var remaining []*Condition
	for _, c := range p.Conditions {
		e.fireOngoing(p, c, DurationEndOfTurn, bus)

		if c.Duration == DurationEndOfTurn {
			continue // removed after firing
		}
		if c.Duration == DurationSaveEnds {
			strOrDex := c.SaveAbility == "str" || c.SaveAbility == "dex"
			if strOrDex && p.autoFailsStrDexSaves() {
				// Stunned/paralyzed/unconscious/petrified auto-fail str/dex
				// saves (§4.D.5): no roll, the condition simply persists.
				remaining = append(remaining, c)
				continue
			}
			roll := e.Dice.D20(c.SaveAbilityMod)
			degree := dice.CheckDegree(roll, c.SaveDC)
			if degree == dice.Success || degree == dice.CriticalSuccess {
				continue // save succeeded, condition ends
			}
		}
		remaining = append(remaining, c)
	}
	p.Conditions = remaining
}

// fireOngoing applies c's ongoing effect if it triggers on phase.
func (e *Encounter) fireOngoing(p *Participant, c *Condition, phase DurationPolicy, bus *events.Bus) {
	if c.Ongoing == nil || c.Ongoing.Trigger != phase {
		return
	}
	amount := c.Ongoing.Amount
	if c.Ongoing.DiceCount > 0 {
		result := e.Dice.RollExpr(c.Ongoing.DiceCount, c.Ongoing.DiceSides, 0)
		amount += result.Total
	}
	if c.Ongoing.IsHealing {
		applyHealing(p, amount)
	} else {
		applyDamage(p, amount)
	}
	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "ongoing_effect_fired",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId":   e.ID,
				"participantId": p.ID,
				"condition":     c.Type,
				"amount":        amount,
				"healing":       c.Ongoing.IsHealing,
				"newHp":         p.HP,
			},
		})
	}
	if p.HP == 0 {
		p.Defeated = true
	}
}

func applyDamage(p *Participant, amount int) {
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

func applyHealing(p *Participant, amount int) {
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	if p.HP < 0 {
		p.HP = 0
	}
}
