package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/aisoal/internal/model"
)

const (
	questionsSheet      = "questions"
	sessionDetailsSheet = "session_details"
)

// GenerateXLSX renders the flattened question table to a "questions" sheet
// and, when a session is given, its identifiers to "session_details".
func GenerateXLSX(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error) {
	rows, err := flattenRows(ctx, logs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), questionsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if len(rows) > 0 {
		if err := writeSheetRows(f, questionsSheet, sheetHeader(sheetColumns), rows); err != nil {
			return nil, err
		}
	}

	if session != nil {
		if _, err := f.NewSheet(sessionDetailsSheet); err != nil {
			return nil, fmt.Errorf("add sheet: %w", err)
		}
		details := [][]any{
			{"Session ID", scalarCell(session.ID)},
			{"User ID", scalarCell(session.UserID)},
		}
		if err := writeSheetRows(f, sessionDetailsSheet, []any{"Key", "Value"}, details); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetHeader(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

func writeSheetRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	write := func(n int, row []any) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, n, err)
		}
		return nil
	}
	if err := write(1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := write(i+2, row); err != nil {
			return err
		}
	}
	return nil
}
