package persistence

import (
	"fmt"

	"github.com/tobyjaguar/rpgkernel/internal/worldgen"
)

// SaveWorld performs a full replace of a world's tiles, regions, rivers,
// structures, roads, and annotations (§4.F "typed repository methods").
func (db *DB) SaveWorld(w *worldgen.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO worlds
		(id, name, seed, width, height, created_at, updated_at, environment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Seed, w.Width, w.Height, w.CreatedAt, w.UpdatedAt, w.Environment,
	)
	if err != nil {
		return fmt.Errorf("insert world: %w", err)
	}

	for _, table := range []string{"tiles", "regions", "river_segments", "structures", "roads", "annotations"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE world_id = ?", table), w.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	tileStmt, err := tx.Preparex(`INSERT INTO tiles
		(world_id, x, y, biome, elevation, moisture, temperature) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tileStmt.Close()
	for _, t := range w.Tiles {
		if _, err := tileStmt.Exec(w.ID, t.X, t.Y, t.Biome, t.Elevation, t.Moisture, t.Temperature); err != nil {
			return fmt.Errorf("insert tile (%d,%d): %w", t.X, t.Y, err)
		}
	}

	for _, r := range w.Regions {
		_, err := tx.Exec(`INSERT INTO regions
			(id, world_id, name, type, center_x, center_y, color) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, w.ID, r.Name, r.Type, r.CenterX, r.CenterY, r.Color,
		)
		if err != nil {
			return fmt.Errorf("insert region %s: %w", r.ID, err)
		}
	}

	for _, seg := range w.Rivers {
		_, err := tx.Exec(`INSERT INTO river_segments
			(world_id, from_x, from_y, to_x, to_y, flux) VALUES (?, ?, ?, ?, ?, ?)`,
			w.ID, seg.FromX, seg.FromY, seg.ToX, seg.ToY, seg.Flux,
		)
		if err != nil {
			return fmt.Errorf("insert river segment: %w", err)
		}
	}

	for _, s := range w.Structures {
		_, err := tx.Exec(`INSERT INTO structures
			(id, world_id, type, x, y, name, population) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, w.ID, s.Type, s.X, s.Y, s.Name, s.Population,
		)
		if err != nil {
			return fmt.Errorf("insert structure %s: %w", s.ID, err)
		}
	}

	for _, r := range w.Roads {
		_, err := tx.Exec(`INSERT INTO roads
			(world_id, from_x, from_y, to_x, to_y) VALUES (?, ?, ?, ?, ?)`,
			w.ID, r.FromX, r.FromY, r.ToX, r.ToY,
		)
		if err != nil {
			return fmt.Errorf("insert road: %w", err)
		}
	}

	for _, a := range w.Annotations {
		_, err := tx.Exec(`INSERT INTO annotations
			(world_id, x, y, text) VALUES (?, ?, ?, ?)`,
			w.ID, a.X, a.Y, a.Text,
		)
		if err != nil {
			return fmt.Errorf("insert annotation: %w", err)
		}
	}

	return tx.Commit()
}

// LoadWorld reconstructs a full worldgen.World by id.
func (db *DB) LoadWorld(id string) (*worldgen.World, error) {
	type worldRow struct {
		ID          string `db:"id"`
		Name        string `db:"name"`
		Seed        string `db:"seed"`
		Width       int    `db:"width"`
		Height      int    `db:"height"`
		CreatedAt   int64  `db:"created_at"`
		UpdatedAt   int64  `db:"updated_at"`
		Environment string `db:"environment"`
	}
	var wr worldRow
	if err := db.conn.Get(&wr, "SELECT * FROM worlds WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load world %s: %w", id, err)
	}

	w := &worldgen.World{
		ID: wr.ID, Name: wr.Name, Seed: wr.Seed, Width: wr.Width, Height: wr.Height,
		CreatedAt: wr.CreatedAt, UpdatedAt: wr.UpdatedAt, Environment: wr.Environment,
		Tiles: make(map[worldgen.Coord]*worldgen.Tile),
	}

	type tileRow struct {
		X, Y, Biome, Elevation, Moisture, Temperature int
	}
	var tiles []tileRow
	if err := db.conn.Select(&tiles, "SELECT x, y, biome, elevation, moisture, temperature FROM tiles WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}
	for _, t := range tiles {
		w.Tiles[worldgen.Coord{X: t.X, Y: t.Y}] = &worldgen.Tile{
			WorldID: id, X: t.X, Y: t.Y, Biome: worldgen.Biome(t.Biome),
			Elevation: t.Elevation, Moisture: t.Moisture, Temperature: t.Temperature,
		}
	}

	type regionRow struct {
		ID      string `db:"id"`
		Name    string `db:"name"`
		Type    string `db:"type"`
		CenterX int    `db:"center_x"`
		CenterY int    `db:"center_y"`
		Color   string `db:"color"`
	}
	var regions []regionRow
	if err := db.conn.Select(&regions, "SELECT id, name, type, center_x, center_y, color FROM regions WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	for _, r := range regions {
		w.Regions = append(w.Regions, &worldgen.Region{
			ID: r.ID, WorldID: id, Name: r.Name, Type: worldgen.RegionType(r.Type),
			CenterX: r.CenterX, CenterY: r.CenterY, Color: r.Color,
		})
	}

	type riverRow struct {
		FromX int `db:"from_x"`
		FromY int `db:"from_y"`
		ToX   int `db:"to_x"`
		ToY   int `db:"to_y"`
		Flux  int `db:"flux"`
	}
	var rivers []riverRow
	if err := db.conn.Select(&rivers, "SELECT from_x, from_y, to_x, to_y, flux FROM river_segments WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load rivers: %w", err)
	}
	for _, r := range rivers {
		w.Rivers = append(w.Rivers, &worldgen.RiverSegment{
			WorldID: id, FromX: r.FromX, FromY: r.FromY, ToX: r.ToX, ToY: r.ToY, Flux: r.Flux,
		})
	}

	type structRow struct {
		ID         string  `db:"id"`
		Type       string  `db:"type"`
		X          int     `db:"x"`
		Y          int     `db:"y"`
		Name       string  `db:"name"`
		Population *int    `db:"population"`
	}
	var structs []structRow
	if err := db.conn.Select(&structs, "SELECT id, type, x, y, name, population FROM structures WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load structures: %w", err)
	}
	for _, s := range structs {
		w.Structures = append(w.Structures, &worldgen.Structure{
			ID: s.ID, WorldID: id, Type: worldgen.StructureType(s.Type),
			X: s.X, Y: s.Y, Name: s.Name, Population: s.Population,
		})
	}

	type roadRow struct {
		FromX int `db:"from_x"`
		FromY int `db:"from_y"`
		ToX   int `db:"to_x"`
		ToY   int `db:"to_y"`
	}
	var roads []roadRow
	if err := db.conn.Select(&roads, "SELECT from_x, from_y, to_x, to_y FROM roads WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load roads: %w", err)
	}
	for _, r := range roads {
		w.Roads = append(w.Roads, &worldgen.Road{WorldID: id, FromX: r.FromX, FromY: r.FromY, ToX: r.ToX, ToY: r.ToY})
	}

	type annotationRow struct {
		X, Y int
		Text string
	}
	var annotations []annotationRow
	if err := db.conn.Select(&annotations, "SELECT x, y, text FROM annotations WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("load annotations: %w", err)
	}
	for _, a := range annotations {
		w.Annotations = append(w.Annotations, &worldgen.Annotation{WorldID: id, X: a.X, Y: a.Y, Text: a.Text})
	}

	return w, nil
}

// WorldState is the summary record the world.getState tool returns (§6).
type WorldState struct {
	WorldID        string
	Seed           string
	Width          int
	Height         int
	BiomeHistogram map[worldgen.Biome]int
	StructureCount int
}

// GetWorldState summarizes a persisted world without reconstructing every
// tile into the caller's memory (§6 world.getState).
func (db *DB) GetWorldState(id string) (*WorldState, error) {
	type worldRow struct {
		Seed   string `db:"seed"`
		Width  int    `db:"width"`
		Height int    `db:"height"`
	}
	var wr worldRow
	if err := db.conn.Get(&wr, "SELECT seed, width, height FROM worlds WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load world %s: %w", id, err)
	}

	type biomeCount struct {
		Biome int `db:"biome"`
		Count int `db:"count"`
	}
	var counts []biomeCount
	if err := db.conn.Select(&counts, "SELECT biome, COUNT(*) AS count FROM tiles WHERE world_id = ? GROUP BY biome", id); err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	histogram := make(map[worldgen.Biome]int, len(counts))
	for _, c := range counts {
		histogram[worldgen.Biome(c.Biome)] = c.Count
	}

	var structureCount int
	if err := db.conn.Get(&structureCount, "SELECT COUNT(*) FROM structures WHERE world_id = ?", id); err != nil {
		return nil, fmt.Errorf("structure count: %w", err)
	}

	return &WorldState{
		WorldID: id, Seed: wr.Seed, Width: wr.Width, Height: wr.Height,
		BiomeHistogram: histogram, StructureCount: structureCount,
	}, nil
}
