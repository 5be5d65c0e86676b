package store

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/aisoal/internal/model"
)

// now is replaced in tests.
var now = time.Now

// ImportSnapshot stores all entries in one transaction under a fresh import ID
// and records the import in metadata.
func (s *Store) ImportSnapshot(entries []model.HistoryEntry) (model.ImportInfo, error) {
	info := model.ImportInfo{
		ID:       uuid.NewString(),
		At:       now().UTC().Format(time.RFC3339),
		Sessions: len(entries),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return info, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for i, e := range entries {
		if err := upsertSession(tx, e, info.ID); err != nil {
			return info, fmt.Errorf("import entry %d: %w", i, err)
		}
	}
	pairs := []struct{ k, v string }{
		{keyImportID, info.ID},
		{keyImportAt, info.At},
		{keyImportSessions, strconv.Itoa(info.Sessions)},
	}
	for _, p := range pairs {
		if err := setMetadata(tx, p.k, p.v); err != nil {
			return info, err
		}
	}
	if err := tx.Commit(); err != nil {
		return info, fmt.Errorf("commit import: %w", err)
	}
	slog.Info("imported snapshot", "import_id", info.ID, "sessions", info.Sessions)
	return info, nil
}
