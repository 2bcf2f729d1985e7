package tools_test

import (
	"testing"

	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/config"
	"github.com/tobyjaguar/rpgkernel/internal/kernel"
	"github.com/tobyjaguar/rpgkernel/internal/tools"
)

func newTestContext(t *testing.T) *kernel.Context {
	t.Helper()
	ctx, err := kernel.New(&config.Config{NodeEnv: "test"}, "tools-test-seed")
	if err != nil {
		t.Fatalf("kernel.New: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func TestWorldGenerateThenGetState(t *testing.T) {
	ctx := newTestContext(t)

	genRes, genText, err := tools.WorldGenerate(ctx, tools.WorldGenerateArgs{
		Seed: "world-a", Width: 12, Height: 12,
	})
	if err != nil {
		t.Fatalf("WorldGenerate: %v", err)
	}
	if genRes.WorldID == "" {
		t.Fatal("expected a non-empty world id")
	}
	if genRes.TileCount != 144 {
		t.Fatalf("expected 144 tiles, got %d", genRes.TileCount)
	}
	if !containsSTATEJSON(genText) {
		t.Fatal("expected STATE_JSON block in world.generate envelope")
	}

	stateRes, stateText, err := tools.WorldGetState(ctx, tools.WorldGetStateArgs{WorldID: genRes.WorldID})
	if err != nil {
		t.Fatalf("WorldGetState: %v", err)
	}
	if stateRes.WorldID != genRes.WorldID {
		t.Fatalf("expected world id %q, got %q", genRes.WorldID, stateRes.WorldID)
	}
	if !containsSTATEJSON(stateText) {
		t.Fatal("expected STATE_JSON block in world.getState envelope")
	}
}

func TestWorldGetStateUnknownWorldReturnsError(t *testing.T) {
	ctx := newTestContext(t)
	_, text, err := tools.WorldGetState(ctx, tools.WorldGetStateArgs{WorldID: "does-not-exist"})
	if err == nil {
		t.Fatal("expected an error for an unknown world id")
	}
	if !containsSTATEJSON(text) {
		t.Fatal("expected an error envelope with a STATE_JSON block")
	}
}

func TestWorldMapPatchPreviewThenApply(t *testing.T) {
	ctx := newTestContext(t)
	genRes, _, err := tools.WorldGenerate(ctx, tools.WorldGenerateArgs{Seed: "world-b", Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("WorldGenerate: %v", err)
	}

	script := `SET_BIOME x=1 y=1 biome=desert`
	preview, _, err := tools.WorldMapPatchPreview(ctx, tools.WorldMapPatchPreviewArgs{WorldID: genRes.WorldID, Script: script})
	if err != nil {
		t.Fatalf("WorldMapPatchPreview: %v", err)
	}
	if !preview.WillModify {
		t.Fatal("expected WillModify to be true for a non-empty script")
	}

	applied, _, err := tools.WorldMapPatchApply(ctx, tools.WorldMapPatchApplyArgs{WorldID: genRes.WorldID, Script: script})
	if err != nil {
		t.Fatalf("WorldMapPatchApply: %v", err)
	}
	if applied.CommandsExecuted != 1 {
		t.Fatalf("expected 1 command executed, got %d", applied.CommandsExecuted)
	}
}

func TestCombatLifecycleEndToEnd(t *testing.T) {
	ctx := newTestContext(t)
	const sessionID = "combat-session"

	created, _, err := tools.CombatCreateEncounter(ctx, tools.CombatCreateEncounterArgs{
		SessionID: sessionID,
		Seed:      "fight-1",
		Participants: []combat.ParticipantInput{
			{ID: "hero", Name: "Hero", HP: 20, MaxHP: 20, MovementSpeed: 30},
			{ID: "goblin-1", Name: "Goblin", HP: 7, MaxHP: 7, MovementSpeed: 30},
		},
	})
	if err != nil {
		t.Fatalf("CombatCreateEncounter: %v", err)
	}
	if len(created.TurnOrder) != 2 {
		t.Fatalf("expected 2 participants in turn order, got %d", len(created.TurnOrder))
	}

	state, _, err := tools.CombatGetEncounterState(ctx, tools.CombatGetEncounterStateArgs{
		SessionID: sessionID, EncounterID: created.EncounterID,
	})
	if err != nil {
		t.Fatalf("CombatGetEncounterState: %v", err)
	}
	if state.Status != combat.StatusActive {
		t.Fatalf("expected encounter to be active, got %v", state.Status)
	}

	actorID := created.TurnOrder[0]
	targetID := created.TurnOrder[1]
	actionRes, _, err := tools.CombatExecuteAction(ctx, tools.CombatExecuteActionArgs{
		SessionID: sessionID, EncounterID: created.EncounterID,
		Action: "attack", ActorID: actorID, TargetID: targetID,
		AttackBonus: 20, DC: 1, DamageDice: 1, DamageSides: 1, DamageMod: 0, IsMelee: true,
	})
	if err != nil {
		t.Fatalf("CombatExecuteAction: %v", err)
	}
	if actionRes.Attack == nil {
		t.Fatal("expected an attack trace in the action result")
	}

	turnRes, _, err := tools.CombatAdvanceTurn(ctx, tools.CombatAdvanceTurnArgs{
		SessionID: sessionID, EncounterID: created.EncounterID,
	})
	if err != nil {
		t.Fatalf("CombatAdvanceTurn: %v", err)
	}
	if turnRes.PreviousTurn != actorID {
		t.Fatalf("expected previous turn %q, got %q", actorID, turnRes.PreviousTurn)
	}

	endRes, _, err := tools.CombatEndEncounter(ctx, tools.CombatEndEncounterArgs{
		SessionID: sessionID, EncounterID: created.EncounterID,
	})
	if err != nil {
		t.Fatalf("CombatEndEncounter: %v", err)
	}
	_ = endRes

	if _, ok := ctx.GetEncounter(sessionID, created.EncounterID); ok {
		t.Fatal("expected encounter to be evicted from the live registry after end")
	}
}

func TestEventsSubscribeOpensOneChannelPerTopic(t *testing.T) {
	ctx := newTestContext(t)
	res, _, err := tools.EventsSubscribe(ctx, tools.EventsSubscribeArgs{Topics: []string{"world", "combat"}})
	if err != nil {
		t.Fatalf("EventsSubscribe: %v", err)
	}
	if len(res.Subscriptions) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(res.Subscriptions))
	}
}

func containsSTATEJSON(s string) bool {
	return len(s) > 0 && (indexOf(s, "STATE_JSON") >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
