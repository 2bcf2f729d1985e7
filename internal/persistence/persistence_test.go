package persistence_test

import (
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/audit"
	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/dice"
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/persistence"
	"github.com/tobyjaguar/rpgkernel/internal/spatial"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

func openTestDB(t *testing.T) *persistence.DB {
	t.Helper()
	db, err := persistence.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWorldRoundTrip(t *testing.T) {
	db := openTestDB(t)

	result, err := worldgen.Generate(worldgen.GenConfig{Seed: "persist-world", Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := result.World
	want.ID = "world-1"
	for _, tile := range want.Tiles {
		tile.WorldID = want.ID
	}

	if err := db.SaveWorld(want); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}

	got, err := db.LoadWorld(want.ID)
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}

	if got.Seed != want.Seed || got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("world metadata mismatch: got %+v, want seed=%s w=%d h=%d", got, want.Seed, want.Width, want.Height)
	}
	if len(got.Tiles) != len(want.Tiles) {
		t.Fatalf("expected %d tiles, got %d", len(want.Tiles), len(got.Tiles))
	}
	for c, tile := range want.Tiles {
		loaded, ok := got.Tiles[c]
		if !ok {
			t.Fatalf("missing tile at %+v after round trip", c)
		}
		if loaded.Biome != tile.Biome || loaded.Elevation != tile.Elevation {
			t.Fatalf("tile at %+v mismatch: got %+v, want %+v", c, loaded, tile)
		}
	}
}

func TestGetWorldStateSummarizesWithoutFullLoad(t *testing.T) {
	db := openTestDB(t)
	result, err := worldgen.Generate(worldgen.GenConfig{Seed: "state-test", Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	result.World.ID = "world-state"
	if err := db.SaveWorld(result.World); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}

	state, err := db.GetWorldState("world-state")
	if err != nil {
		t.Fatalf("GetWorldState: %v", err)
	}
	total := 0
	for _, n := range state.BiomeHistogram {
		total += n
	}
	if total != 64 {
		t.Fatalf("expected histogram to cover all 64 tiles, got %d", total)
	}
}

func TestCharacterHPSync(t *testing.T) {
	db := openTestDB(t)
	c := &persistence.Character{
		ID: "hero-1", Name: "Hero",
		Stats: map[string]int{"str": 2, "dex": 1, "con": 2, "int": 0, "wis": 0, "cha": 0},
		Level: 3, HP: 30, MaxHP: 30, AC: 16,
		Proficiencies:     []string{"longsword", "athletics"},
		SaveProficiencies: []string{"str", "con"},
		SpellSlots:        map[int]persistence.SpellSlot{1: {Current: 2, Max: 4}},
		MovementSpeed:     30,
		AbilityMods:       map[string]int{"con": 2},
		Resistances:       combat.DamageTypeSet{"fire": true},
		Vulnerabilities:   combat.DamageTypeSet{"cold": true},
		Immunities:        combat.DamageTypeSet{"poison": true},
	}
	if err := db.SaveCharacter(c); err != nil {
		t.Fatalf("SaveCharacter: %v", err)
	}

	if err := db.SyncCharacterHP("hero-1", 18); err != nil {
		t.Fatalf("SyncCharacterHP: %v", err)
	}
	got, err := db.LoadCharacter("hero-1")
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}
	if got.HP != 18 {
		t.Fatalf("expected hp=18 after sync, got %d", got.HP)
	}
	if got.AC != 16 || got.Level != 3 {
		t.Fatalf("expected ac=16 level=3 to round-trip, got ac=%d level=%d", got.AC, got.Level)
	}
	if !got.Resistances["fire"] || !got.Vulnerabilities["cold"] || !got.Immunities["poison"] {
		t.Fatalf("expected resistances/vulnerabilities/immunities to round-trip, got %+v %+v %+v",
			got.Resistances, got.Vulnerabilities, got.Immunities)
	}
	if got.SpellSlots[1].Max != 4 {
		t.Fatalf("expected spell slot level 1 max=4 to round-trip, got %+v", got.SpellSlots[1])
	}

	// Overshoot clamps to MaxHP (hp never exceeds the character's ceiling).
	if err := db.SyncCharacterHP("hero-1", 999); err != nil {
		t.Fatalf("SyncCharacterHP: %v", err)
	}
	got, _ = db.LoadCharacter("hero-1")
	if got.HP != got.MaxHP {
		t.Fatalf("expected hp clamped to max_hp=%d, got %d", got.MaxHP, got.HP)
	}
}

func TestEncounterRoundTrip(t *testing.T) {
	db := openTestDB(t)

	terrain := combat.TerrainInfo{
		Obstacles:        spatial.NewObstacleSet([]spatial.Coord{{X: 2, Y: 2}}),
		DifficultTerrain: map[spatial.Coord]bool{{X: 3, Y: 3}: true},
	}
	inputs := []combat.ParticipantInput{
		{ID: "hero", Name: "Hero", HP: 30, MaxHP: 30, MovementSpeed: 30},
		{ID: "goblin-1", Name: "Goblin Scout", HP: 10, MaxHP: 10, MovementSpeed: 30},
	}
	bus := events.New(nil)
	e := combat.StartEncounter("enc-1", "session-1", dice.New("persist-combat"), terrain, inputs, bus)

	if err := db.SaveEncounter(e); err != nil {
		t.Fatalf("SaveEncounter: %v", err)
	}
	loaded, err := db.LoadEncounter("enc-1")
	if err != nil {
		t.Fatalf("LoadEncounter: %v", err)
	}

	if loaded.Status != e.Status || loaded.Round != e.Round {
		t.Fatalf("lifecycle mismatch: got %+v", loaded)
	}
	if len(loaded.TurnOrder) != len(e.TurnOrder) {
		t.Fatalf("turn order length mismatch: got %d, want %d", len(loaded.TurnOrder), len(e.TurnOrder))
	}
	for i, id := range e.TurnOrder {
		if loaded.TurnOrder[i] != id {
			t.Fatalf("turn order mismatch at %d: got %s, want %s", i, loaded.TurnOrder[i], id)
		}
	}
	if len(loaded.Participants) != len(e.Participants) {
		t.Fatalf("participant count mismatch: got %d, want %d", len(loaded.Participants), len(e.Participants))
	}
	if !loaded.Terrain.Obstacles[spatial.Coord{X: 2, Y: 2}] {
		t.Fatal("expected obstacle at (2,2) to survive round trip")
	}
	if !loaded.Terrain.DifficultTerrain[spatial.Coord{X: 3, Y: 3}] {
		t.Fatal("expected difficult terrain at (3,3) to survive round trip")
	}
	if loaded.Dice == nil {
		t.Fatal("expected dice stream to be reconstructed from its seed")
	}
}

func TestAuditLogRoundTrip(t *testing.T) {
	db := openTestDB(t)
	entry := audit.Entry{
		Action:     "combat.executeAction",
		Arguments:  map[string]any{"encounterId": "enc-1"},
		Result:     map[string]any{"hit": true},
		DurationMs: 3,
		Timestamp:  1,
	}
	if err := db.SaveAuditEntry(entry); err != nil {
		t.Fatalf("SaveAuditEntry: %v", err)
	}
	entries, err := db.LoadAuditLog()
	if err != nil {
		t.Fatalf("LoadAuditLog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != entry.Action {
		t.Fatalf("action mismatch: got %q", entries[0].Action)
	}
}
