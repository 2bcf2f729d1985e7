package combat

import (
	"sort"
	"strings"

	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

// enemyNamePatterns are the advisory name patterns auto-detection falls
// back to when a participant's isEnemy flag is not provided (§4.D.2: "an
// advisory heuristic only").
var enemyNamePatterns = []string{
	"goblin", "orc", "bandit", "skeleton", "zombie", "wolf", "cultist",
	"kobold", "troll", "ogre", "dragon", "spider", "wraith", "ghoul",
}

func looksLikeEnemy(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range enemyNamePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// ParticipantInput is the caller-supplied seed data for one combatant
// (§4.D.2).
type ParticipantInput struct {
	ID                string
	Name              string
	IsEnemy           *bool // nil defers to name-pattern auto-detection
	InitiativeBonus   int
	HP                int
	MaxHP             int
	Position          spatial.Coord
	MovementSpeed     int
	SourceCharacterID string
	AbilityMods       map[string]int
	Resistances       DamageTypeSet
	Vulnerabilities   DamageTypeSet
	Immunities        DamageTypeSet
}

// StartEncounter rolls initiative for every participant, sorts turn order
// (initiative descending, ties broken by participant ID ascending), and
// sets the encounter active (§4.D.2).
func StartEncounter(id, sessionID string, stream *dice.Stream, terrain TerrainInfo, inputs []ParticipantInput, bus *events.Bus) *Encounter {
	e := &Encounter{
		ID:             id,
		SessionID:      sessionID,
		Status:         StatusActive,
		Round:          1,
		Participants:   make(map[string]*Participant, len(inputs)),
		Terrain:        terrain,
		Auras:          make(map[string]*Aura),
		Concentrations: make(map[string]*Concentration),
		Dice:           stream,
	}

	for _, in := range inputs {
		isEnemy := looksLikeEnemy(in.Name)
		if in.IsEnemy != nil {
			isEnemy = *in.IsEnemy
		}
		speed := in.MovementSpeed
		if speed == 0 {
			speed = 30
		}
		roll := stream.D20(in.InitiativeBonus)
		p := &Participant{
			ID:                in.ID,
			Name:              in.Name,
			IsEnemy:           isEnemy,
			SourceCharacterID: in.SourceCharacterID,
			Initiative:        roll.Total,
			InitiativeBonus:   in.InitiativeBonus,
			HP:                in.HP,
			MaxHP:             in.MaxHP,
			Position:          in.Position,
			MovementSpeed:     speed,
			MovementRemaining: speed,
			AbilityMods:       in.AbilityMods,
			Resistances:       in.Resistances,
			Vulnerabilities:   in.Vulnerabilities,
			Immunities:        in.Immunities,
		}
		e.Participants[p.ID] = p
		e.TurnOrder = append(e.TurnOrder, p.ID)
	}

	sort.SliceStable(e.TurnOrder, func(i, j int) bool {
		pi, pj := e.Participants[e.TurnOrder[i]], e.Participants[e.TurnOrder[j]]
		if pi.Initiative != pj.Initiative {
			return pi.Initiative > pj.Initiative
		}
		return pi.ID < pj.ID
	})

	e.beginTurn(bus)

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "encounter_started",
			SessionID: sessionID,
			Payload: map[string]any{
				"encounterId": id,
				"turnOrder":   append([]string(nil), e.TurnOrder...),
			},
		})
	}
	return e
}

// beginTurn resets the action economy for the new active participant's
// turn and fires its start-of-turn condition processing (§4.D.3, §4.D.5).
func (e *Encounter) beginTurn(bus *events.Bus) {
	p := e.ActiveParticipant()
	if p == nil {
		return
	}
	p.ActionUsed = false
	p.BonusActionUsed = false
	p.ReactionUsed = false
	p.HasDashed = false
	p.HasDisengaged = false
	p.FreeInteractionUsed = false
	p.MovementRemaining = p.effectiveSpeed()

	if !p.Defeated {
		e.processStartOfTurn(p, bus)
		e.fireTurnBoundaryAuras(AuraTriggerStartOfTurn, bus)
	}
}

// AdvanceTurn processes the current participant's end-of-turn conditions,
// advances to the next turn slot, wrapping to round+1 after the last
// participant, and resets the new active participant's action economy
// (§4.D.1, §4.D.3). Fails with State if the encounter is not active.
func (e *Encounter) AdvanceTurn(bus *events.Bus) error {
	if e.Status != StatusActive {
		return stateErr("encounter is not active")
	}
	if cur := e.ActiveParticipant(); cur != nil && !cur.Defeated {
		e.fireTurnBoundaryAuras(AuraTriggerEndOfTurn, bus)
		e.processEndOfTurn(cur, bus)
	}

	e.CurrentTurnIndex++
	if e.CurrentTurnIndex >= len(e.TurnOrder) {
		e.CurrentTurnIndex = 0
		e.Round++
	}
	e.beginTurn(bus)

	if bus != nil {
		bus.Publish(events.Event{
			Topic:     "combat",
			Type:      "turn_advanced",
			SessionID: e.SessionID,
			Payload: map[string]any{
				"encounterId": e.ID,
				"round":       e.Round,
				"activeId":    e.TurnOrder[e.CurrentTurnIndex],
			},
		})
	}
	return nil
}

// EndEncounter synchronizes participant hp back to its source Character
// (via syncHP, caller-supplied), clears participant-owned auras, and marks
// the encounter completed (§4.D.9). Participants with no SourceCharacterID
// are silently dropped from the sync.
func (e *Encounter) EndEncounter(syncHP func(characterID string, hp int)) {
	for _, p := range e.Participants {
		if p.SourceCharacterID != "" && syncHP != nil {
			syncHP(p.SourceCharacterID, p.HP)
		}
	}
	for id, a := range e.Auras {
		_ = a
		delete(e.Auras, id)
	}
	e.Status = StatusCompleted
}
