// Package persistence provides SQLite-based storage for worlds, encounters,
// characters, and the audit/event logs (§4.F). Grounded on the teacher's
// internal/persistence/db.go: one sqlx.DB wrapping modernc.org/sqlite,
// schema-only migrations run as idempotent CREATE TABLE IF NOT EXISTS plus
// best-effort ALTER TABLE ADD COLUMN, JSON-encoded composite columns for
// nested structures the relational schema doesn't flatten.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for kernel state storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at dsn. Passing ":memory:"
// selects an in-memory store (§6 Environment: NODE_ENV=test).
func Open(dsn string) (*DB, error) {
	opts := "?_journal_mode=WAL&_busy_timeout=5000"
	if dsn == ":memory:" {
		opts = ""
	}
	conn, err := sqlx.Open("sqlite", dsn+opts)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		environment TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		world_id TEXT NOT NULL REFERENCES worlds(id),
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		biome INTEGER NOT NULL,
		elevation INTEGER NOT NULL,
		moisture INTEGER NOT NULL,
		temperature INTEGER NOT NULL,
		PRIMARY KEY (world_id, x, y)
	);

	CREATE TABLE IF NOT EXISTS regions (
		id TEXT PRIMARY KEY,
		world_id TEXT NOT NULL REFERENCES worlds(id),
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		center_x INTEGER NOT NULL,
		center_y INTEGER NOT NULL,
		color TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS river_segments (
		world_id TEXT NOT NULL REFERENCES worlds(id),
		from_x INTEGER NOT NULL,
		from_y INTEGER NOT NULL,
		to_x INTEGER NOT NULL,
		to_y INTEGER NOT NULL,
		flux INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		world_id TEXT NOT NULL REFERENCES worlds(id),
		type TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		name TEXT NOT NULL,
		population INTEGER
	);

	CREATE TABLE IF NOT EXISTS roads (
		world_id TEXT NOT NULL REFERENCES worlds(id),
		from_x INTEGER NOT NULL,
		from_y INTEGER NOT NULL,
		to_x INTEGER NOT NULL,
		to_y INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS annotations (
		world_id TEXT NOT NULL REFERENCES worlds(id),
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stats_json TEXT NOT NULL,
		level INTEGER NOT NULL,
		hp INTEGER NOT NULL,
		max_hp INTEGER NOT NULL,
		ac INTEGER NOT NULL,
		proficiencies_json TEXT NOT NULL,
		save_proficiencies_json TEXT NOT NULL,
		spell_slots_json TEXT NOT NULL,
		movement_speed INTEGER NOT NULL,
		ability_mods_json TEXT NOT NULL,
		resistances_json TEXT NOT NULL,
		vulnerabilities_json TEXT NOT NULL,
		immunities_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS encounters (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		status TEXT NOT NULL,
		round INTEGER NOT NULL,
		current_turn_index INTEGER NOT NULL,
		dice_seed TEXT NOT NULL,
		turn_order_json TEXT NOT NULL,
		participants_json TEXT NOT NULL,
		terrain_json TEXT NOT NULL,
		auras_json TEXT NOT NULL,
		concentrations_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conditions (
		encounter_id TEXT NOT NULL REFERENCES encounters(id),
		participant_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		condition_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auras (
		encounter_id TEXT NOT NULL REFERENCES encounters(id),
		aura_id TEXT NOT NULL,
		aura_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		arguments_json TEXT NOT NULL,
		result_json TEXT,
		error_kind TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic TEXT NOT NULL,
		type TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		payload_json TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tiles_world ON tiles(world_id);
	CREATE INDEX IF NOT EXISTS idx_regions_world ON regions(world_id);
	CREATE INDEX IF NOT EXISTS idx_rivers_world ON river_segments(world_id);
	CREATE INDEX IF NOT EXISTS idx_structures_world ON structures(world_id);
	CREATE INDEX IF NOT EXISTS idx_roads_world ON roads(world_id);
	CREATE INDEX IF NOT EXISTS idx_annotations_world ON annotations(world_id);
	CREATE INDEX IF NOT EXISTS idx_conditions_encounter ON conditions(encounter_id);
	CREATE INDEX IF NOT EXISTS idx_auras_encounter ON auras(encounter_id);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
	CREATE INDEX IF NOT EXISTS idx_event_logs_topic ON event_logs(topic);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// Columns added after the initial schema, applied best-effort so older
	// databases pick them up without a data rewrite (teacher's idiom).
	migrations := []string{
		"ALTER TABLE structures ADD COLUMN population INTEGER",
	}
	for _, m := range migrations {
		db.conn.Exec(m) // Ignore errors — column may already exist.
	}

	return nil
}
