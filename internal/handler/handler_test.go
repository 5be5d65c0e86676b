package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
	"github.com/pavelanni/aisoal/internal/store"
)

const snapshotJSON = `{"sessions":[
 {"id":1,"title":"Sesi Satu","filename":"bab1.pdf","model":"gpt-4o","created_at":"2024-03-05T14:07:09Z",
  "logs":[{"id":10,"pages":"1-2","duration":"6.5","questions":[
   {"id":100,"question":"Q1?","options":"[\"x\",\"y\"]","answer":"y","type":"multiple-choice","confidence":0.9},
   {"id":101,"question":"Q2?","options":[],"answer":"ok","type":"essay","confidence":"0.85"}]}]},
 {"id":"s-2","title":"Kosong","model":"llama3","logs":[]}
]}`

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	r := chi.NewRouter()
	r.Use(i18n.Middleware(i18n.DefaultLang))
	New(s).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func importSnapshot(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/import", "application/json", strings.NewReader(snapshotJSON))
	if err != nil {
		t.Fatalf("POST /api/import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("import status %d: %s", resp.StatusCode, body)
	}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestImportAndList(t *testing.T) {
	srv, s := newTestServer(t)
	importSnapshot(t, srv)

	resp, body := get(t, srv.URL+"/api/sessions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var list []model.SessionListing
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}

	last, err := s.LastImport()
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if last.Sessions != 2 || last.ID == "" {
		t.Errorf("last import = %+v", last)
	}
}

func TestImportMultipart(t *testing.T) {
	srv, s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("snapshot", "history.json")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte(snapshotJSON))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/import", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if n, _ := s.SessionCount(); n != 2 {
		t.Errorf("stored %d sessions, want 2", n)
	}
}

func TestImportInvalid(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"sessions":`},
		{"missing id", `[{"title":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/import", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestExportSession(t *testing.T) {
	srv, _ := newTestServer(t)
	importSnapshot(t, srv)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantName    string
		wantContent string
	}{
		{"text", "/api/sessions/1/export/txt", http.StatusOK, "gpt-4o_bab1.txt", "Jawaban: B. y"},
		{"uppercase format", "/api/sessions/1/export/DOCX", http.StatusOK, "gpt-4o_bab1.docx", ""},
		{"selection", "/api/sessions/1/export/txt?questions=101", http.StatusOK, "gpt-4o_bab1.txt", "1. Q2?"},
		{"english", "/api/sessions/1/export/txt?lang=en", http.StatusOK, "gpt-4o_bab1.txt", "Answer: B. y"},
		{"unknown format", "/api/sessions/1/export/rtf", http.StatusBadRequest, "", ""},
		{"unknown session", "/api/sessions/404/export/txt", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status %d, want %d: %s", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantName != "" {
				cd := resp.Header.Get("Content-Disposition")
				if !strings.Contains(cd, tt.wantName) {
					t.Errorf("Content-Disposition = %q, want %q", cd, tt.wantName)
				}
			}
			if tt.wantContent != "" && !strings.Contains(string(body), tt.wantContent) {
				t.Errorf("body does not contain %q:\n%s", tt.wantContent, body)
			}
		})
	}
}

func TestExportSessionStatistics(t *testing.T) {
	srv, _ := newTestServer(t)
	importSnapshot(t, srv)

	_, body := get(t, srv.URL+"/api/sessions/1/export/txt")
	for _, want := range []string{
		"Jumlah Total Soal Dihasilkan: 2",
		"- Kepercayaan Tertinggi: 90.00%",
		"- Kepercayaan Terendah: 85.00%",
		"- Waktu Tercepat: 6.50s",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestExportDocument(t *testing.T) {
	srv, _ := newTestServer(t)
	doc := `{"session":{"id":9,"title":"Lepas","model":"m"},
	 "logs":[{"id":1,"questions":[{"id":1,"question":"Q","options":["a"],"answer":"a","type":"essay"}]}]}`

	resp, err := http.Post(srv.URL+"/api/export/json", "application/json", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Lepas.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var out model.SessionExport
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := out.SessionDetails.TotalQuestions.Float(); v != 1 {
		t.Errorf("total_questions = %v, want computed 1", out.SessionDetails.TotalQuestions)
	}
}

func TestExportAll(t *testing.T) {
	srv, _ := newTestServer(t)
	importSnapshot(t, srv)

	resp, body := get(t, srv.URL+"/api/export-all/csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Aisoal_All_Sessions_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "gpt-4o/Sesi Satu_1.csv" {
		for _, f := range zr.File {
			t.Logf("entry %s", f.Name)
		}
		t.Errorf("unexpected archive entries")
	}

	resp, _ = get(t, srv.URL+"/api/export-all/invalid")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid format status %d, want 400", resp.StatusCode)
	}
}

func TestHistoryReports(t *testing.T) {
	srv, _ := newTestServer(t)
	importSnapshot(t, srv)

	tests := []struct {
		path       string
		wantStatus int
		wantName   string
	}{
		{"/api/history/table", http.StatusOK, "generation-history.docx"},
		{"/api/history/table?columns=total", http.StatusOK, "generation-history.docx"},
		{"/api/history/models", http.StatusOK, "generation-history-by-model.docx"},
		{"/api/history/models-csv", http.StatusOK, "model_performance_data.csv"},
		{"/api/history/chart", http.StatusBadRequest, ""},
		{"/api/history/table?columns=bogus", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status %d, want %d: %s", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantName != "" && !strings.Contains(resp.Header.Get("Content-Disposition"), tt.wantName) {
				t.Errorf("Content-Disposition = %q", resp.Header.Get("Content-Disposition"))
			}
		})
	}

	_, body := get(t, srv.URL+"/api/history/models-csv")
	if !strings.HasPrefix(string(body), "Model,Average Confidence,Average Duration (s)\n") {
		t.Errorf("csv = %q", body)
	}
}
