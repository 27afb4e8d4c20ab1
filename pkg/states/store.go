package states

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists entity states and reading history in SQLite so the state
// table survives restarts and the dashboard can chart trends.
type Store struct {
	db   *sql.DB
	path string
}

// Reading is one historical value of a numeric sensor.
type Reading struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Open creates or opens the database at path, creating parent directories
// as needed, and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("states: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("states: open sqlite: %w", err)
	}
	// Single connection avoids SQLite locking issues.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("states: enable WAL: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entity_states (
		entity_id    TEXT PRIMARY KEY,
		state        TEXT NOT NULL,
		attributes   TEXT NOT NULL DEFAULT '{}',
		last_updated TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS readings (
		id          TEXT PRIMARY KEY,
		entity_id   TEXT NOT NULL,
		value       REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_entity ON readings(entity_id, recorded_at);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("states: apply schema: %w", err)
	}
	return nil
}

// SaveState upserts the latest state of an entity.
func (s *Store) SaveState(state EntityState) error {
	attrs, err := json.Marshal(state.Attributes)
	if err != nil {
		return fmt.Errorf("states: encode attributes for %s: %w", state.EntityID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO entity_states (entity_id, state, attributes, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			state        = excluded.state,
			attributes   = excluded.attributes,
			last_updated = excluded.last_updated`,
		state.EntityID, state.State, string(attrs), state.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("states: upsert %s: %w", state.EntityID, err)
	}
	return nil
}

// States loads all persisted entity states.
func (s *Store) States() ([]EntityState, error) {
	rows, err := s.db.Query(`SELECT entity_id, state, attributes, last_updated FROM entity_states`)
	if err != nil {
		return nil, fmt.Errorf("states: query entity states: %w", err)
	}
	defer rows.Close()

	var out []EntityState
	for rows.Next() {
		var (
			state EntityState
			attrs string
		)
		if err := rows.Scan(&state.EntityID, &state.State, &attrs, &state.LastUpdated); err != nil {
			return nil, fmt.Errorf("states: scan entity state: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &state.Attributes); err != nil {
			return nil, fmt.Errorf("states: decode attributes for %s: %w", state.EntityID, err)
		}
		out = append(out, state)
	}
	return out, rows.Err()
}

// AppendReading records one historical numeric value for an entity.
func (s *Store) AppendReading(entityID string, value float64, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO readings (id, entity_id, value, recorded_at)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), entityID, value, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("states: append reading for %s: %w", entityID, err)
	}
	return nil
}

// Readings returns up to limit most recent readings for an entity, oldest
// first so they can be charted directly.
func (s *Store) Readings(entityID string, limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, entity_id, value, recorded_at FROM (
			SELECT id, entity_id, value, recorded_at
			FROM readings
			WHERE entity_id = ?
			ORDER BY recorded_at DESC
			LIMIT ?
		) ORDER BY recorded_at ASC`,
		entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("states: query readings for %s: %w", entityID, err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.ID, &r.EntityID, &r.Value, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("states: scan reading: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneReadings deletes history older than the cutoff and reports how many
// rows were removed.
func (s *Store) PruneReadings(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM readings WHERE recorded_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("states: prune readings: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
