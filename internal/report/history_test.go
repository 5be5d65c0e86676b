package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/pavelanni/aisoal/internal/model"
)

func TestParseHistoryColumns(t *testing.T) {
	tests := []struct {
		in      string
		want    HistoryColumns
		wantErr bool
	}{
		{"", AllHistoryColumns, false},
		{"total", HistoryColumns{Total: true}, false},
		{" Confidence , efficiency", HistoryColumns{Confidence: true, Efficiency: true}, false},
		{"total,speed", HistoryColumns{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHistoryColumns(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReport) {
					t.Fatalf("expected ErrInvalidReport, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHistoryColumns: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHistoryKind(t *testing.T) {
	for _, s := range []string{"table", "MODELS", "models-csv"} {
		if _, err := ParseHistoryKind(s); err != nil {
			t.Errorf("ParseHistoryKind(%q): %v", s, err)
		}
	}
	if _, err := ParseHistoryKind("chart"); !errors.Is(err, ErrInvalidReport) {
		t.Errorf("expected ErrInvalidReport, got %v", err)
	}
}

func TestHistoryTable(t *testing.T) {
	data, err := HistoryTable(testCtx(t), historyEntries(), AllHistoryColumns)
	if err != nil {
		t.Fatalf("HistoryTable: %v", err)
	}
	paras := docxText(t, data)
	for _, want := range []string{
		"Riwayat Pembuatan Soal",
		"Jumlah Soal",
		"Kinerja Kepercayaan",
		"Sesi A",
		"gpt-4o",
		"90.0%",
		"70.0%",
		"80.0%",
		"12.5s",
		"8.0s",
		"11.0s",
		"3/5/2024",
	} {
		if !contains(paras, want) {
			t.Errorf("table has no cell %q", want)
		}
	}
}

func TestHistoryTableColumnGroups(t *testing.T) {
	data, err := HistoryTable(testCtx(t), historyEntries(), HistoryColumns{Total: true})
	if err != nil {
		t.Fatalf("HistoryTable: %v", err)
	}
	paras := docxText(t, data)
	if contains(paras, "Kinerja Kepercayaan") || contains(paras, "90.0%") {
		t.Errorf("confidence group rendered although not selected")
	}
	if !contains(paras, "PG") {
		t.Errorf("total group missing")
	}
}

func TestAggregateByModel(t *testing.T) {
	entries := []model.HistoryEntry{
		{Model: "b", Logs: []model.Log{{
			Duration: model.NumberOf(10),
			Questions: []model.Question{
				{Confidence: model.NumberOf(0.5)},
				{Confidence: model.NumberOf(0)},
			},
		}}},
		{Model: "a", Logs: []model.Log{{
			Questions: []model.Question{{Confidence: model.NumberOf(90)}},
		}}},
		{Model: "b", Logs: []model.Log{{
			Duration:  model.NumberOf(4),
			Questions: []model.Question{{Confidence: model.NumberOf(0.9)}},
		}}},
	}

	stats := AggregateByModel(entries)
	if len(stats) != 2 || stats[0].Model != "b" || stats[1].Model != "a" {
		t.Fatalf("stats = %+v", stats)
	}
	b := stats[0]
	if v, _ := b.AvgConfidence.Float(); v != 0.7 {
		t.Errorf("avg confidence = %v, want 0.7", v)
	}
	if v, _ := b.MinConfidence.Float(); v != 0.5 {
		t.Errorf("zero confidence should be ignored, min = %v", v)
	}
	// Three questions: two in the 10s batch, one in the 4s batch.
	if v, _ := b.AvgDuration.Float(); v != 8 {
		t.Errorf("avg duration = %v, want 8", v)
	}
	if stats[1].AvgDuration.Valid {
		t.Errorf("model without durations should have none: %+v", stats[1])
	}
}

func TestModelPerformanceCSV(t *testing.T) {
	data, err := ModelPerformanceCSV([]ModelStats{
		{Model: "gpt-4o", AvgConfidence: model.NumberOf(0.85), AvgDuration: model.NumberOf(12.5)},
		{Model: "llama3"},
	})
	if err != nil {
		t.Fatalf("ModelPerformanceCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := [][]string{
		{"Model", "Average Confidence", "Average Duration (s)"},
		{"gpt-4o", "0.85", "12.5"},
		{"llama3", "0", "0"},
	}
	if len(records) != len(want) {
		t.Fatalf("records = %v", records)
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record %d col %d = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestHistoryReportArtifacts(t *testing.T) {
	tests := []struct {
		kind HistoryKind
		name string
	}{
		{HistoryTableKind, "generation-history.docx"},
		{HistoryModelsKind, "generation-history-by-model.docx"},
		{HistoryModelsCSVKind, "model_performance_data.csv"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a, err := HistoryReport(testCtx(t), tt.kind, historyEntries(), AllHistoryColumns)
			if err != nil {
				t.Fatalf("HistoryReport: %v", err)
			}
			if a.Name != tt.name || len(a.Data) == 0 {
				t.Errorf("artifact = %s (%d bytes)", a.Name, len(a.Data))
			}
		})
	}
}
