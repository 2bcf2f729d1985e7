// Package combat implements the deterministic combat engine: encounter
// lifecycle, the per-turn action economy, attack/heal/move resolution,
// conditions, concentration, and auras (§4.D). It is the sole authority
// over mutation to combat participants. Grounded on the teacher's
// tick-structured Simulation (internal/engine/tick.go's layered
// OnTick/OnHour/... callbacks, generalized here to per-turn/per-round
// phases) and its event-emission pattern, reused in internal/events.
package combat

import (
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

// Status is the encounter's top-level lifecycle state (§4.D.1).
type Status string

const (
	StatusNone      Status = "none"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// ConditionType enumerates the authoritative condition effect table (§4.D.5).
type ConditionType string

const (
	ConditionProne       ConditionType = "prone"
	ConditionStunned     ConditionType = "stunned"
	ConditionParalyzed   ConditionType = "paralyzed"
	ConditionUnconscious ConditionType = "unconscious"
	ConditionPetrified   ConditionType = "petrified"
	ConditionRestrained  ConditionType = "restrained"
	ConditionGrappled    ConditionType = "grappled"
	ConditionBlinded     ConditionType = "blinded"
	ConditionFrightened  ConditionType = "frightened"
	ConditionInvisible   ConditionType = "invisible"
)

// DurationPolicy determines when a condition is processed and removed (§4.D.5).
type DurationPolicy string

const (
	DurationStartOfTurn DurationPolicy = "start_of_turn"
	DurationEndOfTurn   DurationPolicy = "end_of_turn"
	DurationRounds      DurationPolicy = "rounds"
	DurationSaveEnds    DurationPolicy = "save_ends"
	DurationPermanent   DurationPolicy = "permanent"
)

// OngoingEffect is damage or healing a condition applies on its trigger,
// rolled via internal/dice when DiceCount > 0 (§4.D.5).
type OngoingEffect struct {
	Trigger    DurationPolicy // DurationStartOfTurn or DurationEndOfTurn
	Amount     int
	DiceCount  int
	DiceSides  int
	IsHealing  bool
}

// Condition is one applied status effect instance (§4.D.5).
type Condition struct {
	Type            ConditionType
	Duration        DurationPolicy
	RoundsRemaining int
	SaveDC          int
	SaveAbility     string // "str"/"dex"/"con"/... ability the save_ends roll is keyed on
	SaveAbilityMod  int
	Ongoing         *OngoingEffect
	ConcentrationID string // non-empty if owned by a concentration effect
	SourceID        string // the fear/effect source, used by frightened's "while source in sight" rule
}

// Concentration tracks a single character's sustained effect (§4.D.6).
type Concentration struct {
	ID      string
	OwnerID string
	Label   string
	AuraIDs []string
}

// AuraTrigger is when an aura's effect fires (§4.D.7).
type AuraTrigger string

const (
	AuraTriggerEnter       AuraTrigger = "enter"
	AuraTriggerExit        AuraTrigger = "exit"
	AuraTriggerStartOfTurn AuraTrigger = "start_of_turn"
	AuraTriggerEndOfTurn   AuraTrigger = "end_of_turn"
)

// AuraEffect is what an aura does to a participant on its trigger (§4.D.7).
type AuraEffect struct {
	Trigger       AuraTrigger
	Amount        int
	DiceCount     int
	DiceSides     int
	IsHealing     bool
	SaveDC        int
	SaveAbilityMod int
	ConditionToApply *ConditionType
}

// Aura is an area effect anchored to its owner's position (§4.D.7).
type Aura struct {
	ID              string
	OwnerID         string
	RadiusFeet      int
	IncludeOwner    bool
	IncludeAllies   bool
	IncludeEnemies  bool
	Effects         []AuraEffect
	Inside          map[string]bool // participants currently within radius
	ConcentrationID string
}

// Participant is one combatant's full mutable state for the duration of an
// encounter (§4.D.3).
type Participant struct {
	ID                  string
	Name                string
	IsEnemy             bool
	SourceCharacterID   string

	Initiative       int
	InitiativeBonus  int

	HP    int
	MaxHP int

	Position spatial.Coord

	MovementSpeed     int
	MovementRemaining int

	ActionUsed          bool
	BonusActionUsed     bool
	ReactionUsed        bool
	HasDashed           bool
	HasDisengaged       bool
	FreeInteractionUsed bool

	Conditions []*Condition
	Defeated   bool

	ConcentratingOn string // non-empty Concentration.ID, if any

	AbilityMods map[string]int // "str","dex","con",... modifiers for saves

	Resistances     DamageTypeSet // final damage halved (floor)
	Vulnerabilities DamageTypeSet // final damage doubled
	Immunities      DamageTypeSet // final damage zeroed
}

// DamageTypeSet is a set of damage type names (e.g. "fire", "slashing"),
// keyed the same way internal/spatial.ObstacleSet keys coordinates (§3,
// §4.D.4 step 4).
type DamageTypeSet map[string]bool

// TerrainInfo is the encounter's static map data for movement/pathing (§4.C, §4.D.4).
type TerrainInfo struct {
	Obstacles       spatial.ObstacleSet
	DifficultTerrain map[spatial.Coord]bool
}

// Encounter is the CombatState: the sole authority over participant
// mutation for its lifetime (§4.D.1).
type Encounter struct {
	ID        string
	SessionID string
	Status    Status

	Round            int
	CurrentTurnIndex int
	TurnOrder        []string

	Participants map[string]*Participant
	Terrain      TerrainInfo

	Auras          map[string]*Aura
	Concentrations map[string]*Concentration

	Dice *dice.Stream
}

// ActiveParticipant returns the participant whose turn it currently is, or
// nil if the encounter has no participants.
func (e *Encounter) ActiveParticipant() *Participant {
	if len(e.TurnOrder) == 0 {
		return nil
	}
	return e.Participants[e.TurnOrder[e.CurrentTurnIndex]]
}

// Positions returns a snapshot of every living participant's position,
// keyed by ID, for use with the spatial engine's AoE and pathing helpers.
func (e *Encounter) Positions() map[string]spatial.Coord {
	out := make(map[string]spatial.Coord, len(e.Participants))
	for id, p := range e.Participants {
		if !p.Defeated {
			out[id] = p.Position
		}
	}
	return out
}

// obstacleSet builds the combined obstacle set of terrain obstacles plus
// every other living participant's position (§4.D.4 step 3).
func (e *Encounter) obstacleSet(excludeID string) spatial.ObstacleSet {
	set := make(spatial.ObstacleSet, len(e.Terrain.Obstacles)+len(e.Participants))
	for c := range e.Terrain.Obstacles {
		set[c] = true
	}
	for id, p := range e.Participants {
		if id == excludeID || p.Defeated {
			continue
		}
		set[p.Position] = true
	}
	return set
}
