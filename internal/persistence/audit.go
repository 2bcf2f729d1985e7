package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/tobyjaguar/rpgkernel/internal/audit"
	"github.com/tobyjaguar/rpgkernel/internal/events"
)

// SaveAuditEntry appends one audit.Entry to the audit_logs table
// (§4.F "audit_logs"; §4.G).
func (db *DB) SaveAuditEntry(e audit.Entry) error {
	argsJSON, err := json.Marshal(e.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}
	var resultJSON []byte
	if e.Result != nil {
		resultJSON, err = json.Marshal(e.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
	}
	_, err = db.conn.Exec(`INSERT INTO audit_logs
		(action, arguments_json, result_json, error_kind, error_message, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Action, string(argsJSON), string(resultJSON), e.ErrorKind, e.ErrorMessage, e.DurationMs, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("save audit entry: %w", err)
	}
	return nil
}

// LoadAuditLog returns every recorded audit entry in dispatch order
// (§5 Ordering guarantees), for internal/replay to re-feed.
func (db *DB) LoadAuditLog() ([]audit.Entry, error) {
	type row struct {
		Action       string `db:"action"`
		ArgumentsJSON string `db:"arguments_json"`
		ResultJSON   *string `db:"result_json"`
		ErrorKind    string `db:"error_kind"`
		ErrorMessage string `db:"error_message"`
		DurationMs   int64  `db:"duration_ms"`
		Timestamp    int64  `db:"timestamp"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT action, arguments_json, result_json, error_kind, error_message, duration_ms, timestamp FROM audit_logs ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, r := range rows {
		e := audit.Entry{
			Action: r.Action, ErrorKind: r.ErrorKind, ErrorMessage: r.ErrorMessage,
			DurationMs: r.DurationMs, Timestamp: r.Timestamp,
		}
		var args any
		if err := json.Unmarshal([]byte(r.ArgumentsJSON), &args); err != nil {
			return nil, fmt.Errorf("unmarshal arguments: %w", err)
		}
		e.Arguments = args
		if r.ResultJSON != nil && *r.ResultJSON != "" {
			var result any
			if err := json.Unmarshal([]byte(*r.ResultJSON), &result); err != nil {
				return nil, fmt.Errorf("unmarshal result: %w", err)
			}
			e.Result = result
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SaveEvent appends one events.Event to the event_logs table (§4.F
// "event_logs"), stamped with the caller's simulation-clock timestamp so
// event ordering survives a restart. Subscriber delivery itself stays
// in-memory (events.Bus); this is the durable record replay and audit
// tooling read back.
func (db *DB) SaveEvent(e events.Event, timestamp int64) error {
	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = db.conn.Exec(`INSERT INTO event_logs
		(topic, type, session_id, payload_json, timestamp) VALUES (?, ?, ?, ?, ?)`,
		e.Topic, e.Type, e.SessionID, string(payloadJSON), timestamp,
	)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}
