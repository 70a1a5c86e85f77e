// ABOUTME: SQLite-backed persistence for the record store
// ABOUTME: One row per record, mutation-level writes

package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/nainya/stringstore/pkg/analyze"
	"github.com/nainya/stringstore/pkg/store"
)

// SQLite persists records in a SQLite database, applying each mutation as a
// single row write instead of rewriting the whole state.
type SQLite struct {
	mu  sync.Mutex
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLite opens (or creates) a SQLite-backed persister.
// Use ":memory:" for an in-memory database.
func NewSQLite(path string, log zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS strings (
		id         TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		properties TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &SQLite{db: db, log: log}, nil
}

// Load reads every stored record. Rows that fail to decode are skipped with
// a warning so one bad row cannot block startup.
func (s *SQLite) Load() (map[string]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, value, properties, created_at FROM strings")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load: %w", err)
	}
	defer rows.Close()

	records := make(map[string]store.Record)
	for rows.Next() {
		var id, value, propsJSON, createdAt string
		if err := rows.Scan(&id, &value, &propsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}

		var props analyze.Properties
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("Skipping row with undecodable properties")
			continue
		}

		rec := store.Record{ID: id, Value: value, Properties: props}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records[id] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load: %w", err)
	}

	s.log.Info().Int("records", len(records)).Msg("SQLite state loaded")
	return records, nil
}

// Commit applies one mutation as a row insert or delete.
func (s *SQLite) Commit(m store.Mutation, _ map[string]store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Op {
	case store.OpInsert:
		propsJSON, err := json.Marshal(m.Record.Properties)
		if err != nil {
			return fmt.Errorf("sqlite: marshal properties: %w", err)
		}
		_, err = s.db.Exec(
			"INSERT OR REPLACE INTO strings (id, value, properties, created_at) VALUES (?, ?, ?, ?)",
			m.ID, m.Record.Value, string(propsJSON), m.Record.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert %q: %w", m.ID, err)
		}

	case store.OpDelete:
		if _, err := s.db.Exec("DELETE FROM strings WHERE id = ?", m.ID); err != nil {
			return fmt.Errorf("sqlite: delete %q: %w", m.ID, err)
		}

	default:
		return fmt.Errorf("sqlite: unknown mutation op %d", m.Op)
	}

	return nil
}

// Close shuts down the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ store.Persister = (*SQLite)(nil)
