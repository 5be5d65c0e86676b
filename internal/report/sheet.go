package report

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pavelanni/aisoal/internal/model"
)

// sheetColumns is the column order of the flattened question table.
var sheetColumns = []string{
	"no", "id", "log_id", "question", "options", "answer", "explanation",
	"source_text", "keywords", "difficulty", "type", "language", "source",
	"confidence", "duration", "log_duration", "log_pages", "log_input_tokens",
	"template_id", "template_text",
}

// flattenRows returns one row per question across all logs with a running
// 1-based "no" counter. Cells are int, float64 or string; missing values are "".
func flattenRows(ctx context.Context, logs []model.Log) ([][]any, error) {
	var rows [][]any
	err := eachQuestion(ctx, logs, nil, func(l model.Log, q model.Question, index int) {
		rows = append(rows, []any{
			index + 1,
			scalarCell(q.ID),
			scalarCell(l.ID),
			q.Question,
			listCell(q.Options),
			q.Answer,
			q.Explanation,
			q.SourceText,
			listCell(q.Keywords),
			string(q.Difficulty),
			string(q.Type),
			q.Language,
			q.Source,
			numberCell(q.Confidence),
			scalarCell(q.Duration),
			numberCell(l.Duration),
			// Keeps spreadsheet apps from reading ranges like 1-3 as dates.
			`="` + l.Pages + `"`,
			numberCell(l.InputTokens),
			scalarCell(l.TemplateID),
			l.TemplateText,
		})
	})
	return rows, err
}

func scalarCell(s model.Scalar) any {
	if s.IsNumeric() {
		if f, err := strconv.ParseFloat(s.String(), 64); err == nil {
			return f
		}
	}
	return s.String()
}

func numberCell(n model.Number) any {
	if v, ok := n.Float(); ok {
		return v
	}
	return ""
}

func listCell(l model.StringList) string {
	b, _ := json.Marshal(l.Resolve().Items)
	return string(b)
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}
