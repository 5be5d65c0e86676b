package store

import (
	"database/sql"
	"strconv"

	"github.com/pavelanni/aisoal/internal/model"
)

const (
	keyImportID       = "last_import_id"
	keyImportAt       = "last_import_at"
	keyImportSessions = "last_import_sessions"
)

func setMetadata(ex execer, key, value string) error {
	_, err := ex.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// SetMetadata upserts a key-value pair in the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	return setMetadata(s.db, key, value)
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// LastImport reads the record of the most recent snapshot import.
// The zero value means nothing was imported yet.
func (s *Store) LastImport() (model.ImportInfo, error) {
	var info model.ImportInfo
	var err error

	if info.ID, err = s.GetMetadata(keyImportID); err != nil {
		return info, err
	}
	if info.At, err = s.GetMetadata(keyImportAt); err != nil {
		return info, err
	}
	n, err := s.GetMetadata(keyImportSessions)
	if err != nil {
		return info, err
	}
	if n != "" {
		info.Sessions, err = strconv.Atoi(n)
		if err != nil {
			return info, err
		}
	}
	return info, nil
}
