package combat

import (
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
)

// StartConcentration begins a new concentration effect for ownerID,
// breaking any prior concentration that owner held (§4.D.6).
func (e *Encounter) StartConcentration(concentrationID, ownerID, label string, bus *events.Bus) error {
	owner, ok := e.Participants[ownerID]
	if !ok {
		return notFound("participant", ownerID)
	}
	if owner.ConcentratingOn != "" {
		e.BreakConcentration(owner.ConcentratingOn, bus)
	}
	e.Concentrations[concentrationID] = &Concentration{ID: concentrationID, OwnerID: ownerID, Label: label}
	owner.ConcentratingOn = concentrationID
	return nil
}

// BreakConcentration ends a concentration effect: expires every aura and
// condition it owns (§4.D.6).
func (e *Encounter) BreakConcentration(concentrationID string, bus *events.Bus) {
	c, ok := e.Concentrations[concentrationID]
	if !ok {
		return
	}
	if owner, ok := e.Participants[c.OwnerID]; ok && owner.ConcentratingOn == concentrationID {
		owner.ConcentratingOn = ""
	}
	for _, auraID := range c.AuraIDs {
		delete(e.Auras, auraID)
	}
	// Scan every participant's conditions directly by ConcentrationID
	// rather than tracking back-references: a concentration may apply
	// conditions to any participant in the encounter (§4.D.6: "expires all
	// ... durations owned by that concentration").
	for _, p := range e.Participants {
		for i := len(p.Conditions) - 1; i >= 0; i-- {
			if p.Conditions[i].ConcentrationID == concentrationID {
				removeConditionAt(p, i)
			}
		}
	}
	delete(e.Concentrations, concentrationID)

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "concentration_broken",
			SessionID: e.SessionID,
			Payload:   map[string]any{"encounterId": e.ID, "concentrationId": concentrationID},
		})
	}
}

// CheckConcentration forces a Con save at DC = max(10, floor(damage/2))
// whenever a concentrating participant takes damage; failure ends the
// effect. Being incapacitated, unconscious, or dying also ends it (§4.D.6).
func (e *Encounter) CheckConcentration(participantID string, damage int, conMod int, bus *events.Bus) {
	p, ok := e.Participants[participantID]
	if !ok || p.ConcentratingOn == "" {
		return
	}
	if p.isIncapacitated() || p.Defeated {
		e.BreakConcentration(p.ConcentratingOn, bus)
		return
	}
	dc := damage / 2
	if dc < 10 {
		dc = 10
	}
	roll := e.Dice.D20(conMod)
	degree := dice.CheckDegree(roll, dc)
	if degree == dice.Failure || degree == dice.CriticalFailure {
		e.BreakConcentration(p.ConcentratingOn, bus)
	}
}
