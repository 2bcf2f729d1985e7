package tools

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

func worldGeneratedEvent(result *worldgen.Result) events.Event {
	return events.Event{
		Topic: "world",
		Type:  "world_generated",
		Payload: map[string]any{
			"worldId":        result.World.ID,
			"tileCount":      result.TileCount,
			"regionCount":    result.RegionCount,
			"structureCount": result.StructureCount,
		},
	}
}

func humanSummaryWorldGenerated(res WorldGenerateResult) string {
	return fmt.Sprintf("Generated world %s with %s tiles across %s regions.",
		res.WorldID, humanize.Comma(int64(res.TileCount)), humanize.Comma(int64(res.RegionCount)))
}
