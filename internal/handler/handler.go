package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/aisoal/internal/download"
	"github.com/pavelanni/aisoal/internal/model"
	"github.com/pavelanni/aisoal/internal/report"
	"github.com/pavelanni/aisoal/internal/store"
)

// maxBodySize caps uploaded snapshots and posted documents.
const maxBodySize = 32 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
}

// New creates a new Handler.
func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/sessions", h.handleListSessions)
		r.Post("/import", h.handleImport)
		r.Get("/sessions/{sessionID}/export/{format}", h.handleExportSession)
		r.Post("/export/{format}", h.handleExportDocument)
		r.Get("/export-all/{format}", h.handleExportAll)
		r.Get("/history/{kind}", h.handleHistory)
	})
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidFormat), errors.Is(err, report.ErrInvalidReport),
		errors.Is(err, store.ErrMissingID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []model.SessionListing{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// snapshotBody returns the uploaded snapshot: a "snapshot" multipart file or the raw body.
func snapshotBody(r *http.Request) (io.ReadCloser, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return r.Body, nil
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, err
	}
	file, header, err := r.FormFile("snapshot")
	if err != nil {
		return nil, err
	}
	slog.Debug("received snapshot upload", "filename", header.Filename, "bytes", header.Size)
	return file, nil
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	body, err := snapshotBody(r)
	if err != nil {
		http.Error(w, "no snapshot uploaded", http.StatusBadRequest)
		return
	}
	defer body.Close()

	entries, err := model.DecodeSnapshot(body)
	if err != nil {
		http.Error(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}
	info, err := h.store.ImportSnapshot(entries)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// questionIDs reads the comma separated ?questions= selection.
func questionIDs(r *http.Request) []string {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("questions"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Handler) handleExportSession(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.store.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	session, logs := report.EntryExport(entry, questionIDs(r))
	a, err := report.Export(r.Context(), f, logs, session)
	if err != nil {
		writeError(w, err)
		return
	}
	download.Write(w, a)
}

func (h *Handler) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := model.DecodeSessionDocument(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logs := report.SelectQuestions(doc.Logs, questionIDs(r))
	a, err := report.Export(r.Context(), f, logs, report.WithStats(doc.Session, logs))
	if err != nil {
		writeError(w, err)
		return
	}
	download.Write(w, a)
}

func (h *Handler) handleExportAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.History()
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := report.ExportAllSessionsToZip(r.Context(), entries, chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	download.Write(w, a)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseHistoryKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	cols, err := report.ParseHistoryColumns(r.URL.Query().Get("columns"))
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.store.History()
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := report.HistoryReport(r.Context(), kind, entries, cols)
	if err != nil {
		writeError(w, err)
		return
	}
	download.Write(w, a)
}
