package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot is a dump of history entries fetched from the backend.
type Snapshot struct {
	Sessions []HistoryEntry `json:"sessions"`
}

// DecodeSnapshot reads either a {"sessions": [...]} object or a bare array of entries.
func DecodeSnapshot(r io.Reader) ([]HistoryEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var entries []HistoryEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse snapshot: %w", err)
		}
		return entries, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap.Sessions, nil
}

// DecodeSessionDocument reads a {"session": {...}, "logs": [...]} document.
func DecodeSessionDocument(r io.Reader) (SessionDocument, error) {
	var doc SessionDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("parse session document: %w", err)
	}
	return doc, nil
}
