package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
)

// terrainDTO flattens combat.TerrainInfo's map[spatial.Coord]bool fields
// into coordinate slices: encoding/json cannot marshal a map keyed by a
// struct type, unlike the string- and int-keyed maps elsewhere in
// Encounter (§4.F composite-column encoding).
type terrainDTO struct {
	Obstacles        []spatial.Coord
	DifficultTerrain []spatial.Coord
}

func toTerrainDTO(t combat.TerrainInfo) terrainDTO {
	dto := terrainDTO{}
	for c := range t.Obstacles {
		dto.Obstacles = append(dto.Obstacles, c)
	}
	for c, v := range t.DifficultTerrain {
		if v {
			dto.DifficultTerrain = append(dto.DifficultTerrain, c)
		}
	}
	return dto
}

func (dto terrainDTO) toTerrainInfo() combat.TerrainInfo {
	t := combat.TerrainInfo{
		Obstacles:        spatial.NewObstacleSet(dto.Obstacles),
		DifficultTerrain: make(map[spatial.Coord]bool, len(dto.DifficultTerrain)),
	}
	for _, c := range dto.DifficultTerrain {
		t.DifficultTerrain[c] = true
	}
	return t
}

// SaveEncounter persists the full combat.Encounter state as a row of
// JSON-encoded composite columns (§4.F: "JSON-encoded composite fields
// ... conditions, spell slots, aura effects"). The dice stream is
// recorded by its seed only — Stream.Seed()'s string re-derives a
// bit-identical stream on load (§8: "World → persist → load → world
// equals original").
func (db *DB) SaveEncounter(e *combat.Encounter) error {
	turnOrderJSON, err := json.Marshal(e.TurnOrder)
	if err != nil {
		return fmt.Errorf("marshal turn order: %w", err)
	}
	participantsJSON, err := json.Marshal(e.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	terrainJSON, err := json.Marshal(toTerrainDTO(e.Terrain))
	if err != nil {
		return fmt.Errorf("marshal terrain: %w", err)
	}
	aurasJSON, err := json.Marshal(e.Auras)
	if err != nil {
		return fmt.Errorf("marshal auras: %w", err)
	}
	concentrationsJSON, err := json.Marshal(e.Concentrations)
	if err != nil {
		return fmt.Errorf("marshal concentrations: %w", err)
	}

	seed := ""
	if e.Dice != nil {
		seed = e.Dice.Seed()
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO encounters
		(id, session_id, status, round, current_turn_index, dice_seed,
		 turn_order_json, participants_json, terrain_json, auras_json, concentrations_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Status), e.Round, e.CurrentTurnIndex, seed,
		string(turnOrderJSON), string(participantsJSON), string(terrainJSON),
		string(aurasJSON), string(concentrationsJSON),
	)
	if err != nil {
		return fmt.Errorf("save encounter %s: %w", e.ID, err)
	}
	return nil
}

// LoadEncounter reconstructs a combat.Encounter by id.
func (db *DB) LoadEncounter(id string) (*combat.Encounter, error) {
	type row struct {
		ID               string `db:"id"`
		SessionID        string `db:"session_id"`
		Status           string `db:"status"`
		Round            int    `db:"round"`
		CurrentTurnIndex int    `db:"current_turn_index"`
		DiceSeed         string `db:"dice_seed"`
		TurnOrderJSON    string `db:"turn_order_json"`
		ParticipantsJSON string `db:"participants_json"`
		TerrainJSON      string `db:"terrain_json"`
		AurasJSON        string `db:"auras_json"`
		ConcentrationsJSON string `db:"concentrations_json"`
	}
	var r row
	if err := db.conn.Get(&r, "SELECT * FROM encounters WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load encounter %s: %w", id, err)
	}

	e := &combat.Encounter{
		ID: r.ID, SessionID: r.SessionID, Status: combat.Status(r.Status),
		Round: r.Round, CurrentTurnIndex: r.CurrentTurnIndex,
	}
	if r.DiceSeed != "" {
		e.Dice = dice.New(r.DiceSeed)
	}
	if err := json.Unmarshal([]byte(r.TurnOrderJSON), &e.TurnOrder); err != nil {
		return nil, fmt.Errorf("unmarshal turn order: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ParticipantsJSON), &e.Participants); err != nil {
		return nil, fmt.Errorf("unmarshal participants: %w", err)
	}
	var terrain terrainDTO
	if err := json.Unmarshal([]byte(r.TerrainJSON), &terrain); err != nil {
		return nil, fmt.Errorf("unmarshal terrain: %w", err)
	}
	e.Terrain = terrain.toTerrainInfo()
	if err := json.Unmarshal([]byte(r.AurasJSON), &e.Auras); err != nil {
		return nil, fmt.Errorf("unmarshal auras: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ConcentrationsJSON), &e.Concentrations); err != nil {
		return nil, fmt.Errorf("unmarshal concentrations: %w", err)
	}
	return e, nil
}

// DeleteEncounter removes a completed encounter's persisted row.
func (db *DB) DeleteEncounter(id string) error {
	_, err := db.conn.Exec("DELETE FROM encounters WHERE id = ?", id)
	return err
}
