package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/aisoal/internal/download"
	"github.com/pavelanni/aisoal/internal/model"
	"github.com/pavelanni/aisoal/internal/report"
	"github.com/pavelanni/aisoal/internal/store"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a history snapshot in the local database",
		RunE:  runImport,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "-", "Snapshot JSON file (- for stdin)")
	commonFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one session",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.StringP("session", "s", "", "ID of a stored session")
	f.StringP("input", "i", "", "Session document JSON file with session and logs (instead of --session)")
	f.StringP("format", "f", string(model.FormatWord), "Export format (docx, pdf, txt, csv, xlsx, json)")
	f.StringSliceP("questions", "q", nil, "Question IDs to include (default all)")
	f.StringP("out", "o", ".", "Output directory")
	commonFlags(cmd)
	cmd.MarkFlagsOneRequired("session", "input")
	cmd.MarkFlagsMutuallyExclusive("session", "input")
	return cmd
}

func exportAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-all",
		Short: "Export every stored session into one ZIP archive",
		RunE:  runExportAll,
	}
	f := cmd.Flags()
	f.StringP("format", "f", string(model.FormatWord), "Export format (docx, pdf, txt, csv, xlsx, json)")
	f.StringP("out", "o", ".", "Output directory")
	commonFlags(cmd)
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Write a report over all stored sessions",
		RunE:  runHistory,
	}
	f := cmd.Flags()
	f.StringP("kind", "k", string(report.HistoryTableKind), "Report kind (table, models, models-csv)")
	f.String("columns", "", "Column groups of the table report (total, confidence, efficiency; default all)")
	f.StringP("out", "o", ".", "Output directory")
	commonFlags(cmd)
	return cmd
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func runImport(cmd *cobra.Command, _ []string) error {
	v, _, err := setup(cmd)
	if err != nil {
		return err
	}

	in, err := openInput(v.GetString("input"))
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer in.Close()
	entries, err := model.DecodeSnapshot(in)
	if err != nil {
		return err
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	info, err := db.ImportSnapshot(entries)
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d sessions (import %s)\n", info.Sessions, info.ID)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	v, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	f, err := model.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	ids := v.GetStringSlice("questions")

	var (
		session *model.Session
		logs    []model.Log
	)
	if path := v.GetString("input"); path != "" {
		in, err := openInput(path)
		if err != nil {
			return fmt.Errorf("open session document: %w", err)
		}
		defer in.Close()
		doc, err := model.DecodeSessionDocument(in)
		if err != nil {
			return err
		}
		logs = report.SelectQuestions(doc.Logs, ids)
		session = report.WithStats(doc.Session, logs)
	} else {
		db, err := store.New(v.GetString("db"))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		entry, err := db.GetSession(v.GetString("session"))
		if err != nil {
			return fmt.Errorf("get session %s: %w", v.GetString("session"), err)
		}
		session, logs = report.EntryExport(entry, ids)
	}

	a, err := report.Export(ctx, f, logs, session)
	if err != nil {
		return err
	}
	return save(cmd, v.GetString("out"), a)
}

func runExportAll(cmd *cobra.Command, _ []string) error {
	v, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	entries, err := db.History()
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	a, err := report.ExportAllSessionsToZip(ctx, entries, v.GetString("format"))
	if err != nil {
		return err
	}
	return save(cmd, v.GetString("out"), a)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	v, ctx, err := setup(cmd)
	if err != nil {
		return err
	}
	kind, err := report.ParseHistoryKind(v.GetString("kind"))
	if err != nil {
		return err
	}
	cols, err := report.ParseHistoryColumns(v.GetString("columns"))
	if err != nil {
		return err
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	entries, err := db.History()
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	a, err := report.HistoryReport(ctx, kind, entries, cols)
	if err != nil {
		return err
	}
	return save(cmd, v.GetString("out"), a)
}

func save(cmd *cobra.Command, dir string, a download.Artifact) error {
	path, err := download.Save(dir, a)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
