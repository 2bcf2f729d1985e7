package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/tobyjaguar/rpgkernel/internal/combat"
)

// SpellSlot is one spell-level's current/max slot count (§3: "spellSlots
// [levelN]{current,max}").
type SpellSlot struct {
	Current int
	Max     int
}

// Character is a persisted combatant sheet, the source of truth an
// encounter's Participant.SourceCharacterID links back to, and what
// endEncounter's hp sync writes into (§8 round-trip law: "endEncounter
// synchronizes hp such that a subsequent getCharacter returns the
// participant's final hp"). Field-for-field mirror of §3's Character/NPC
// shape (§4.F: persistence schemas mirror §3 exactly).
type Character struct {
	ID                string
	Name              string
	Stats             map[string]int // str,dex,con,int,wis,cha
	Level             int
	HP                int
	MaxHP             int
	AC                int
	Proficiencies     []string
	SaveProficiencies []string
	SpellSlots        map[int]SpellSlot // keyed by spell level
	MovementSpeed     int
	AbilityMods       map[string]int
	Resistances       combat.DamageTypeSet
	Vulnerabilities   combat.DamageTypeSet
	Immunities        combat.DamageTypeSet
}

// SaveCharacter inserts or fully replaces a character record.
func (db *DB) SaveCharacter(c *Character) error {
	statsJSON, err := json.Marshal(c.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	proficienciesJSON, err := json.Marshal(c.Proficiencies)
	if err != nil {
		return fmt.Errorf("marshal proficiencies: %w", err)
	}
	saveProficienciesJSON, err := json.Marshal(c.SaveProficiencies)
	if err != nil {
		return fmt.Errorf("marshal save proficiencies: %w", err)
	}
	spellSlotsJSON, err := json.Marshal(c.SpellSlots)
	if err != nil {
		return fmt.Errorf("marshal spell slots: %w", err)
	}
	modsJSON, err := json.Marshal(c.AbilityMods)
	if err != nil {
		return fmt.Errorf("marshal ability mods: %w", err)
	}
	resistancesJSON, err := json.Marshal(c.Resistances)
	if err != nil {
		return fmt.Errorf("marshal resistances: %w", err)
	}
	vulnerabilitiesJSON, err := json.Marshal(c.Vulnerabilities)
	if err != nil {
		return fmt.Errorf("marshal vulnerabilities: %w", err)
	}
	immunitiesJSON, err := json.Marshal(c.Immunities)
	if err != nil {
		return fmt.Errorf("marshal immunities: %w", err)
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO characters
		(id, name, stats_json, level, hp, max_hp, ac, proficiencies_json,
		 save_proficiencies_json, spell_slots_json, movement_speed,
		 ability_mods_json, resistances_json, vulnerabilities_json, immunities_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(statsJSON), c.Level, c.HP, c.MaxHP, c.AC,
		string(proficienciesJSON), string(saveProficienciesJSON), string(spellSlotsJSON),
		c.MovementSpeed, string(modsJSON), string(resistancesJSON),
		string(vulnerabilitiesJSON), string(immunitiesJSON),
	)
	if err != nil {
		return fmt.Errorf("save character %s: %w", c.ID, err)
	}
	return nil
}

// LoadCharacter reads a character by id.
func (db *DB) LoadCharacter(id string) (*Character, error) {
	type row struct {
		ID                   string `db:"id"`
		Name                 string `db:"name"`
		StatsJSON            string `db:"stats_json"`
		Level                int    `db:"level"`
		HP                   int    `db:"hp"`
		MaxHP                int    `db:"max_hp"`
		AC                   int    `db:"ac"`
		ProficienciesJSON    string `db:"proficiencies_json"`
		SaveProficienciesJSON string `db:"save_proficiencies_json"`
		SpellSlotsJSON       string `db:"spell_slots_json"`
		MovementSpeed        int    `db:"movement_speed"`
		AbilityJSON          string `db:"ability_mods_json"`
		ResistancesJSON      string `db:"resistances_json"`
		VulnerabilitiesJSON  string `db:"vulnerabilities_json"`
		ImmunitiesJSON       string `db:"immunities_json"`
	}
	var r row
	if err := db.conn.Get(&r, "SELECT * FROM characters WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load character %s: %w", id, err)
	}

	c := &Character{
		ID: r.ID, Name: r.Name, Level: r.Level, HP: r.HP, MaxHP: r.MaxHP, AC: r.AC,
		MovementSpeed: r.MovementSpeed,
	}
	if err := json.Unmarshal([]byte(r.StatsJSON), &c.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ProficienciesJSON), &c.Proficiencies); err != nil {
		return nil, fmt.Errorf("unmarshal proficiencies: %w", err)
	}
	if err := json.Unmarshal([]byte(r.SaveProficienciesJSON), &c.SaveProficiencies); err != nil {
		return nil, fmt.Errorf("unmarshal save proficiencies: %w", err)
	}
	if err := json.Unmarshal([]byte(r.SpellSlotsJSON), &c.SpellSlots); err != nil {
		return nil, fmt.Errorf("unmarshal spell slots: %w", err)
	}
	if err := json.Unmarshal([]byte(r.AbilityJSON), &c.AbilityMods); err != nil {
		return nil, fmt.Errorf("unmarshal ability mods: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ResistancesJSON), &c.Resistances); err != nil {
		return nil, fmt.Errorf("unmarshal resistances: %w", err)
	}
	if err := json.Unmarshal([]byte(r.VulnerabilitiesJSON), &c.Vulnerabilities); err != nil {
		return nil, fmt.Errorf("unmarshal vulnerabilities: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ImmunitiesJSON), &c.Immunities); err != nil {
		return nil, fmt.Errorf("unmarshal immunities: %w", err)
	}
	return c, nil
}

// SyncCharacterHP updates only a character's current hp, clamped to
// [0, maxHp] — the write endEncounter's hp sync performs (§4.D.9, §8).
func (db *DB) SyncCharacterHP(id string, hp int) error {
	res, err := db.conn.Exec(
		"UPDATE characters SET hp = MAX(0, MIN(?, max_hp)) WHERE id = ?",
		hp, id,
	)
	if err != nil {
		return fmt.Errorf("sync hp for character %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sync hp: character %s not found", id)
	}
	return nil
}
