// Command kernel boots a kernel.Context and runs a demonstration scenario
// against it: generate a world, start an encounter, resolve an attack,
// advance the turn, and end it, printing each tool call's text envelope.
// Tool registry glue and a transport server are out of scope (§1 of the
// spec this kernel implements); a real embedder calls the internal/tools
// functions directly, the way this command does.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tobyjaguar/rpgkernel/internal/combat"
	"github.com/tobyjaguar/rpgkernel/internal/config"
	"github.com/tobyjaguar/rpgkernel/internal/kernel"
	"github.com/tobyjaguar/rpgkernel/internal/tools"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, err := kernel.New(cfg, "demo-seed")
	if err != nil {
		slog.Error("failed to start kernel", "error", err)
		os.Exit(1)
	}
	defer ctx.Close()
	slog.Info("kernel started", "store", cfg.StoreDSN())

	const sessionID = "demo-session"

	world, worldText, err := tools.WorldGenerate(ctx, tools.WorldGenerateArgs{
		Seed: "demo-seed", Width: 32, Height: 32,
	})
	if err != nil {
		slog.Error("world.generate failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(worldText)

	encounter, encounterText, err := tools.CombatCreateEncounter(ctx, tools.CombatCreateEncounterArgs{
		SessionID: sessionID,
		Seed:      "demo-battle",
		Participants: []combat.ParticipantInput{
			{ID: "hero", Name: "Hero", HP: 30, MaxHP: 30, MovementSpeed: 30,
				AbilityMods: map[string]int{"str": 3, "dex": 2, "con": 2}},
			{ID: "goblin-1", Name: "Goblin Scout", HP: 10, MaxHP: 10, MovementSpeed: 30,
				AbilityMods: map[string]int{"str": 0, "dex": 2, "con": 0}},
		},
	})
	if err != nil {
		slog.Error("combat.createEncounter failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(encounterText)

	_, actionText, err := tools.CombatExecuteAction(ctx, tools.CombatExecuteActionArgs{
		SessionID: sessionID, EncounterID: encounter.EncounterID,
		Action: "attack", ActorID: "hero", TargetID: "goblin-1",
		AttackBonus: 5, DC: 13, DamageDice: 1, DamageSides: 8, DamageMod: 3, IsMelee: true,
	})
	if err != nil {
		slog.Error("combat.executeAction failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(actionText)

	_, turnText, err := tools.CombatAdvanceTurn(ctx, tools.CombatAdvanceTurnArgs{
		SessionID: sessionID, EncounterID: encounter.EncounterID,
	})
	if err != nil {
		slog.Error("combat.advanceTurn failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(turnText)

	_, endText, err := tools.CombatEndEncounter(ctx, tools.CombatEndEncounterArgs{
		SessionID: sessionID, EncounterID: encounter.EncounterID,
	})
	if err != nil {
		slog.Error("combat.endEncounter failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(endText)

	slog.Info("demonstration scenario complete", "worldId", world.WorldID)
}
