// Package download hands finished export documents to their destination: a
// directory on disk for the CLI or an attachment response for HTTP clients.
package download

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Artifact is a generated document ready to be saved.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Save writes the artifact into dir and returns the written path.
func Save(dir string, a Artifact) (string, error) {
	if a.Name == "" {
		return "", fmt.Errorf("save artifact: empty filename")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(a.Name))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("saved export", "path", path, "bytes", len(a.Data))
	return path, nil
}

// Write sends the artifact as a file download.
func Write(w http.ResponseWriter, a Artifact) {
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		slog.Error("write download", "file", a.Name, "error", err)
	}
}
