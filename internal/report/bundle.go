package report

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/aisoal/internal/download"
	"github.com/pavelanni/aisoal/internal/model"
)

const (
	unknownModelFolder = "Unknown_Model"
	untitledSession    = "Untitled"
	bundlePrefix       = "Aisoal_All_Sessions_"
)

// now is replaced in tests.
var now = time.Now

// ExportAllSessionsToZip renders every entry that has logs in the given format
// and packs the documents into one archive as <model>/<title>_<id>.<ext>.
// Sessions are rendered one at a time; the first failure aborts the archive.
func ExportAllSessionsToZip(ctx context.Context, entries []model.HistoryEntry, format string) (download.Artifact, error) {
	f, err := model.ParseFormat(format)
	if err != nil {
		return download.Artifact{}, err
	}
	gen, err := GeneratorFor(f)
	if err != nil {
		return download.Artifact{}, err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	written := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return download.Artifact{}, err
		}
		if len(e.Logs) == 0 {
			slog.Debug("skipping session without logs", "session_id", e.ID.String())
			continue
		}

		if !e.TotalQuestions.Valid {
			e = HistoryFromLogs(e)
		}
		path := BundlePath(e, f)
		session := SessionFromHistory(e)
		data, err := gen(ctx, e.Logs, &session)
		if err != nil {
			return download.Artifact{}, fmt.Errorf("export session %s: %w", e.ID, err)
		}
		w, err := zw.Create(path)
		if err != nil {
			return download.Artifact{}, fmt.Errorf("add %s: %w", path, err)
		}
		if _, err := w.Write(data); err != nil {
			return download.Artifact{}, fmt.Errorf("write %s: %w", path, err)
		}
		written++
		slog.Debug("added session to archive", "path", path, "bytes", len(data))
	}
	if err := zw.Close(); err != nil {
		return download.Artifact{}, fmt.Errorf("close archive: %w", err)
	}

	name := BundleFilename(now())
	slog.Info("bulk export ready", "file", name, "format", f, "sessions", written)
	return download.Artifact{Name: name, ContentType: model.ZipContentType, Data: buf.Bytes()}, nil
}

// BundlePath returns the archive path of one session: the model names the
// folder and the session ID keeps same-titled files apart.
func BundlePath(e model.HistoryEntry, f model.Format) string {
	folder := SanitizeName(e.Model)
	switch strings.TrimSpace(folder) {
	case "", ".", "..":
		folder = unknownModelFolder
	}
	title := e.Title
	if title == "" {
		title = untitledSession
	}
	file := SanitizeName(fmt.Sprintf("%s_%s", title, e.ID)) + "." + f.Extension()
	return folder + "/" + file
}

// BundleFilename names the archive after its UTC creation time.
func BundleFilename(t time.Time) string {
	return bundlePrefix + t.UTC().Format("20060102_15_04_05") + ".zip"
}
