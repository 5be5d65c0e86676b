package report

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/pavelanni/aisoal/internal/model"
)

// GenerateCSV renders the flattened question table. An export without
// questions has no header either.
func GenerateCSV(ctx context.Context, logs []model.Log, _ *model.Session) ([]byte, error) {
	rows, err := flattenRows(ctx, logs)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if len(rows) == 0 {
		return buf.Bytes(), nil
	}
	w := csv.NewWriter(buf)
	if err := w.Write(sheetColumns); err != nil {
		return nil, err
	}
	rec := make([]string, len(sheetColumns))
	for _, row := range rows {
		for i, v := range row {
			rec[i] = cellString(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
