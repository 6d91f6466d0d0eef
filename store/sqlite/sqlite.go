/*
Package sqlite provides the SQLite-backed scenario document store.

PURPOSE:
  Implements scenario.DocumentStore on a local SQLite file. The store is
  a key-value slot table: one row per slot, the whole document as a JSON
  payload. No relational modeling of lines - the session is the source
  of truth and documents are opaque snapshots.

KEY TABLE:
  scenario_documents:
    slot     TEXT PRIMARY KEY
    payload  TEXT (JSON document)
    saved_at TEXT (RFC3339)

WAL MODE:
  Opened with WAL for better crash recovery; a single local process is
  the only writer.

USAGE:
  store, err := sqlite.New("./data/simulator.db")
  if err != nil { ... }
  defer store.Close()
  session := scenario.New(store)

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.

SEE ALSO:
  - scenario/store.go: Interface definition
  - store/memory: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/juku/tuition-engine/scenario"
)

// Store implements scenario.DocumentStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a store on the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS scenario_documents (
		slot     TEXT PRIMARY KEY,
		payload  TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`)
	return err
}

// =============================================================================
// DOCUMENT STORE IMPLEMENTATION
// =============================================================================

func (s *Store) Save(ctx context.Context, slot string, doc scenario.Document) error {
	now := time.Now().UTC()
	doc.SavedAt = now

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenario_documents (slot, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		slot, string(payload), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, slot string) (scenario.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM scenario_documents WHERE slot = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return scenario.Document{}, scenario.ErrSlotNotFound
	}
	if err != nil {
		return scenario.Document{}, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}

	var doc scenario.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return scenario.Document{}, fmt.Errorf("failed to decode slot %q: %w", slot, err)
	}
	return doc, nil
}

func (s *Store) Delete(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM scenario_documents WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", slot, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]scenario.SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, saved_at FROM scenario_documents ORDER BY saved_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var infos []scenario.SlotInfo
	for rows.Next() {
		var info scenario.SlotInfo
		var savedAt string
		if err := rows.Scan(&info.Slot, &savedAt); err != nil {
			return nil, err
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
