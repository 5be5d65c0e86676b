package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pavelanni/aisoal/internal/model"

	_ "modernc.org/sqlite"
)

// Store caches fetched history entries in SQLite so exports can run offline.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		log_count INTEGER NOT NULL DEFAULT 0,
		question_count INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		import_id TEXT NOT NULL DEFAULT '',
		imported_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ErrMissingID is returned for an entry that cannot be stored without an ID.
var ErrMissingID = errors.New("session has no id")

func upsertSession(ex execer, e model.HistoryEntry, importID string) error {
	if e.ID.IsZero() {
		return ErrMissingID
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", e.ID, err)
	}
	_, err = ex.Exec(
		`INSERT INTO sessions (id, title, model, created_at, log_count, question_count, payload, import_id, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, model = excluded.model,
		 created_at = excluded.created_at, log_count = excluded.log_count,
		 question_count = excluded.question_count, payload = excluded.payload,
		 import_id = excluded.import_id, imported_at = excluded.imported_at`,
		e.ID.String(), e.Title, e.Model, e.CreatedAt, len(e.Logs), e.QuestionTotal(),
		string(payload), importID, now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store session %s: %w", e.ID, err)
	}
	return nil
}

// UpsertSession stores a single history entry, replacing any entry with the same ID.
func (s *Store) UpsertSession(e model.HistoryEntry) error {
	return upsertSession(s.db, e, "")
}

// GetSession returns a stored entry by ID, or sql.ErrNoRows.
func (s *Store) GetSession(id string) (model.HistoryEntry, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	return decodeEntry(payload)
}

func decodeEntry(payload string) (model.HistoryEntry, error) {
	var e model.HistoryEntry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return e, fmt.Errorf("decode session: %w", err)
	}
	return e, nil
}

const listOrder = ` ORDER BY created_at DESC, seq`

// ListSessions returns the summary rows of all stored sessions, newest first.
func (s *Store) ListSessions() ([]model.SessionListing, error) {
	rows, err := s.db.Query(`SELECT id, title, model, created_at, log_count, question_count FROM sessions` + listOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SessionListing
	for rows.Next() {
		var l model.SessionListing
		if err := rows.Scan(&l.ID, &l.Title, &l.Model, &l.CreatedAt, &l.Logs, &l.Questions); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// History returns every stored entry with its logs, newest first.
func (s *Store) History() ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(`SELECT payload FROM sessions` + listOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.HistoryEntry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		e, err := decodeEntry(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SessionCount returns the number of stored sessions.
func (s *Store) SessionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}
