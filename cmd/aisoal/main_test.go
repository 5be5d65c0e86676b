package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appI18n "github.com/pavelanni/aisoal/internal/i18n"
)

const snapshot = `[
 {"id":7,"title":"Sel","filename":"biologi.pdf","model":"gpt-4o","created_at":"2024-03-05T14:07:09Z",
  "logs":[{"id":1,"pages":"1","duration":3,"questions":[
   {"id":1,"question":"Apa itu sel?","options":[],"answer":"Unit terkecil","type":"essay","confidence":0.8}]}]}
]`

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("aisoal %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestImportExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "test.db")
	in := filepath.Join(dir, "snapshot.json")
	if err := os.WriteFile(in, []byte(snapshot), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	out := run(t, "import", "--db", db, "--input", in)
	if !strings.Contains(out, "imported 1 sessions") {
		t.Errorf("import output = %q", out)
	}

	outDir := filepath.Join(dir, "out")
	run(t, "export", "--db", db, "--session", "7", "--format", "txt", "--out", outDir)
	data, err := os.ReadFile(filepath.Join(outDir, "gpt-4o_biologi.txt"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "1. Apa itu sel?") || !strings.Contains(string(data), "Rincian Sesi") {
		t.Errorf("unexpected export:\n%s", data)
	}

	run(t, "export", "--db", db, "--session", "7", "--format", "txt", "--lang", "en", "--out", outDir)
	data, err = os.ReadFile(filepath.Join(outDir, "gpt-4o_biologi.txt"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Answer: Unit terkecil") {
		t.Errorf("english export:\n%s", data)
	}

	out = run(t, "export-all", "--db", db, "--format", "json", "--out", outDir)
	zr, err := zip.OpenReader(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("open archive %q: %v", out, err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != "gpt-4o/Sel_7.json" {
		t.Errorf("archive has %d entries", len(zr.File))
	}

	out = run(t, "history", "--db", db, "--kind", "models-csv", "--out", outDir)
	if filepath.Base(strings.TrimSpace(out)) != "model_performance_data.csv" {
		t.Errorf("history output = %q", out)
	}
}

func TestExportFromDocument(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.json")
	doc := `{"session":{"title":"Dokumen"},"logs":[{"questions":[{"id":1,"question":"Q","type":"essay"}]}]}`
	if err := os.WriteFile(in, []byte(doc), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	out := run(t, "export", "--input", in, "--format", "csv", "--db", filepath.Join(dir, "unused.db"), "--out", dir)
	if filepath.Base(strings.TrimSpace(out)) != "Dokumen.csv" {
		t.Errorf("export output = %q", out)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--input", "missing.json", "--format", "rtf"})
	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "rtf") {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestExportRejectsUnsupportedLanguage(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--input", "missing.json", "--format", "txt", "--lang", "fr"})
	err := cmd.ExecuteContext(context.Background())
	if !errors.Is(err, appI18n.ErrUnsupportedLang) {
		t.Errorf("expected unsupported language error, got %v", err)
	}
}
