package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pavelanni/aisoal/internal/download"
	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
)

// ErrInvalidReport is returned for an unknown history report kind or column group.
var ErrInvalidReport = errors.New("invalid history report")

// HistoryKind selects one of the history reports.
type HistoryKind string

const (
	HistoryTableKind     HistoryKind = "table"
	HistoryModelsKind    HistoryKind = "models"
	HistoryModelsCSVKind HistoryKind = "models-csv"
)

const (
	historyTableFile  = "generation-history.docx"
	historyModelsFile = "generation-history-by-model.docx"
	modelCSVFile      = "model_performance_data.csv"

	// Table text is 9pt; the model line under a title is 7pt grey.
	tableTextSize  = 9
	tableModelSize = 7
	tableModelGrey = "555555"
)

// ParseHistoryKind validates a report kind.
func ParseHistoryKind(s string) (HistoryKind, error) {
	k := HistoryKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case HistoryTableKind, HistoryModelsKind, HistoryModelsCSVKind:
		return k, nil
	}
	return "", fmt.Errorf("%w: kind %q", ErrInvalidReport, s)
}

// HistoryColumns chooses the optional column groups of the history table.
type HistoryColumns struct {
	Total      bool
	Confidence bool
	Efficiency bool
}

// AllHistoryColumns shows every column group.
var AllHistoryColumns = HistoryColumns{Total: true, Confidence: true, Efficiency: true}

// ParseHistoryColumns reads a comma separated list of column groups.
// An empty list selects all of them.
func ParseHistoryColumns(s string) (HistoryColumns, error) {
	if strings.TrimSpace(s) == "" {
		return AllHistoryColumns, nil
	}
	var c HistoryColumns
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "total":
			c.Total = true
		case "confidence":
			c.Confidence = true
		case "efficiency":
			c.Efficiency = true
		case "":
		default:
			return HistoryColumns{}, fmt.Errorf("%w: column %q", ErrInvalidReport, part)
		}
	}
	return c, nil
}

// HistoryReport renders the report of the given kind over entries.
func HistoryReport(ctx context.Context, kind HistoryKind, entries []model.HistoryEntry, cols HistoryColumns) (download.Artifact, error) {
	var (
		data []byte
		err  error
		a    download.Artifact
	)
	switch kind {
	case HistoryTableKind:
		data, err = HistoryTable(ctx, entries, cols)
		a = download.Artifact{Name: historyTableFile, ContentType: model.FormatWord.ContentType()}
	case HistoryModelsKind:
		data, err = ModelReport(ctx, AggregateByModel(entries))
		a = download.Artifact{Name: historyModelsFile, ContentType: model.FormatWord.ContentType()}
	case HistoryModelsCSVKind:
		data, err = ModelPerformanceCSV(AggregateByModel(entries))
		a = download.Artifact{Name: modelCSVFile, ContentType: model.FormatCSV.ContentType()}
	default:
		return download.Artifact{}, fmt.Errorf("%w: kind %q", ErrInvalidReport, kind)
	}
	if err != nil {
		return download.Artifact{}, fmt.Errorf("render %s report: %w", kind, err)
	}
	a.Data = data
	return a, nil
}

func tableCell(text string, header bool) docxCell {
	return docxCell{Paragraphs: []docxParagraph{{
		Runs:   []docxRun{{Text: text, Bold: header, Size: tableTextSize}},
		Center: true,
	}}}
}

func groupCell(text string, span int) docxCell {
	c := tableCell(text, true)
	c.Span = span
	return c
}

func historyPercent(n model.Number) string  { return formatPercent(n, model.ScaleAuto, 1) }
func historyDuration(n model.Number) string { return formatDuration(n, 1) }

func shortDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return orPlaceholder(s)
	}
	return t.UTC().Format("1/2/2006")
}

// tableDocument renders a titled document holding one table.
func tableDocument(title string, rows []docxRow) ([]byte, error) {
	doc, err := newDocx()
	if err != nil {
		return nil, err
	}
	if _, err := doc.AddHeading(title, 1); err != nil {
		return nil, fmt.Errorf("add heading: %w", err)
	}
	addTable(doc, rows)
	return docxBytes(doc)
}

// HistoryTable renders one table row per session with the selected column groups.
func HistoryTable(ctx context.Context, entries []model.HistoryEntry, cols HistoryColumns) ([]byte, error) {
	head := docxRow{tableCell(i18n.T(ctx, "ColumnTitle"), true)}
	sub := docxRow{{}}
	group := func(title string, labels ...string) {
		head = append(head, groupCell(i18n.T(ctx, title), len(labels)))
		for _, l := range labels {
			sub = append(sub, tableCell(i18n.T(ctx, l), true))
		}
	}
	if cols.Total {
		group("ColumnTotalQuestions", "ColumnTotal", "ColumnMCQ", "ColumnEssay", "ColumnTrueFalse", "ColumnFillIn")
	}
	if cols.Confidence {
		group("ColumnConfidence", "ColumnHighest", "ColumnLowest", "ColumnAverage")
	}
	if cols.Efficiency {
		group("ColumnEfficiency", "ColumnFastest", "ColumnSlowest", "ColumnAverage")
	}
	head = append(head, tableCell(i18n.T(ctx, "ColumnDate"), true))
	sub = append(sub, docxCell{})

	rows := []docxRow{head, sub}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.TotalQuestions.Valid {
			e = HistoryFromLogs(e)
		}
		row := docxRow{{Paragraphs: []docxParagraph{
			{Runs: []docxRun{{Text: e.Title, Size: tableTextSize}}},
			{Runs: []docxRun{{Text: e.Model, Size: tableModelSize, Color: tableModelGrey}}},
		}}}
		var values []string
		if cols.Total {
			values = append(values,
				e.TotalQuestions.String(),
				strconv.Itoa(e.MultipleChoiceCount),
				strconv.Itoa(e.EssayCount),
				strconv.Itoa(e.TrueFalseCount),
				strconv.Itoa(e.FillInTheBlankCount),
			)
		}
		if cols.Confidence {
			values = append(values,
				historyPercent(e.MaxConfidence),
				historyPercent(e.MinConfidence),
				historyPercent(e.AvgConfidence),
			)
		}
		if cols.Efficiency {
			values = append(values,
				historyDuration(e.MinDuration),
				historyDuration(e.MaxDuration),
				historyDuration(e.AvgDuration),
			)
		}
		values = append(values, shortDate(e.CreatedAt))
		for _, v := range values {
			row = append(row, tableCell(v, false))
		}
		rows = append(rows, row)
	}
	return tableDocument(i18n.T(ctx, "HistoryTitle"), rows)
}

// ModelStats aggregates every question of every session generated by one model.
type ModelStats struct {
	Model         string
	MaxConfidence model.Number
	MinConfidence model.Number
	AvgConfidence model.Number
	MaxDuration   model.Number
	MinDuration   model.Number
	AvgDuration   model.Number
}

// AggregateByModel groups entries by model in order of first appearance.
// Zero or missing confidences are ignored; each question contributes its
// batch's generation time when that is non-zero.
func AggregateByModel(entries []model.HistoryEntry) []ModelStats {
	type acc struct{ conf, dur series }
	var order []string
	byModel := make(map[string]*acc)
	for _, e := range entries {
		a, ok := byModel[e.Model]
		if !ok {
			a = &acc{}
			byModel[e.Model] = a
			order = append(order, e.Model)
		}
		for _, l := range e.Logs {
			for _, q := range l.Questions {
				if !q.Confidence.IsZero() {
					a.conf.add(q.Confidence.Value)
				}
				if !l.Duration.IsZero() {
					a.dur.add(l.Duration.Value)
				}
			}
		}
	}

	out := make([]ModelStats, 0, len(order))
	for _, m := range order {
		a := byModel[m]
		out = append(out, ModelStats{
			Model:         m,
			MaxConfidence: a.conf.maximum(),
			MinConfidence: a.conf.minimum(),
			AvgConfidence: a.conf.mean(),
			MaxDuration:   a.dur.maximum(),
			MinDuration:   a.dur.minimum(),
			AvgDuration:   a.dur.mean(),
		})
	}
	return out
}

// ModelReport renders the per-model performance table.
func ModelReport(ctx context.Context, stats []ModelStats) ([]byte, error) {
	rows := []docxRow{
		{
			tableCell(i18n.T(ctx, "ColumnModel"), true),
			groupCell(i18n.T(ctx, "ColumnConfidence"), 3),
			groupCell(i18n.T(ctx, "ColumnEfficiency"), 3),
		},
		{
			{},
			tableCell(i18n.T(ctx, "ColumnHighest"), true),
			tableCell(i18n.T(ctx, "ColumnLowest"), true),
			tableCell(i18n.T(ctx, "ColumnAverage"), true),
			tableCell(i18n.T(ctx, "ColumnFastest"), true),
			tableCell(i18n.T(ctx, "ColumnSlowest"), true),
			tableCell(i18n.T(ctx, "ColumnAverage"), true),
		},
	}
	for _, s := range stats {
		rows = append(rows, docxRow{
			tableCell(s.Model, false),
			tableCell(historyPercent(s.MaxConfidence), false),
			tableCell(historyPercent(s.MinConfidence), false),
			tableCell(historyPercent(s.AvgConfidence), false),
			tableCell(historyDuration(s.MinDuration), false),
			tableCell(historyDuration(s.MaxDuration), false),
			tableCell(historyDuration(s.AvgDuration), false),
		})
	}
	return tableDocument(i18n.T(ctx, "HistoryByModelTitle"), rows)
}

var modelCSVHeader = []string{"Model", "Average Confidence", "Average Duration (s)"}

// ModelPerformanceCSV writes raw per-model averages, 0 where nothing was measured.
func ModelPerformanceCSV(stats []ModelStats) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(modelCSVHeader); err != nil {
		return nil, err
	}
	for _, s := range stats {
		if err := w.Write([]string{s.Model, rawNumber(s.AvgConfidence), rawNumber(s.AvgDuration)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func rawNumber(n model.Number) string {
	if s := n.String(); s != "" {
		return s
	}
	return "0"
}
