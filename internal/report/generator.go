package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/aisoal/internal/download"
	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
)

// Generator renders the given logs and optional session metadata into one
// document. Generators only read their inputs.
type Generator func(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error)

var generators = map[model.Format]Generator{
	model.FormatWord: GenerateWord,
	model.FormatPDF:  GeneratePDF,
	model.FormatText: GenerateText,
	model.FormatCSV:  GenerateCSV,
	model.FormatXLSX: GenerateXLSX,
	model.FormatJSON: GenerateJSON,
}

// GeneratorFor returns the generator registered for f.
func GeneratorFor(f model.Format) (Generator, error) {
	g, ok := generators[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidFormat, string(f))
	}
	return g, nil
}

// Export renders a single session in format f and names the result.
func Export(ctx context.Context, f model.Format, logs []model.Log, session *model.Session) (download.Artifact, error) {
	gen, err := GeneratorFor(f)
	if err != nil {
		return download.Artifact{}, err
	}
	data, err := gen(ctx, logs, session)
	if err != nil {
		return download.Artifact{}, fmt.Errorf("generate %s: %w", f, err)
	}
	name := Filename(ctx, session, f.Extension())
	slog.Debug("generated export", "file", name, "format", f, "bytes", len(data))
	return download.Artifact{Name: name, ContentType: f.ContentType(), Data: data}, nil
}

var unsafeChars = strings.NewReplacer(
	"/", "_", `\`, "_", "?", "_", "%", "_", "*", "_",
	":", "_", "|", "_", `"`, "_", "<", "_", ">", "_",
)

// SanitizeName replaces characters that are unsafe in file names with "_".
func SanitizeName(s string) string {
	return unsafeChars.Replace(s)
}

// Filename derives the download name of a single-session export:
// "{model}_{file name without extension}", else the title, else a default.
func Filename(ctx context.Context, session *model.Session, ext string) string {
	base := i18n.T(ctx, "DefaultFilename")
	if session != nil {
		switch {
		case session.Model != "" && session.Filename != "":
			name := session.Filename
			if dot := strings.LastIndex(name, "."); dot > 0 {
				name = name[:dot]
			}
			base = session.Model + "_" + name
		case session.Title != "":
			base = session.Title
		}
	}
	return SanitizeName(base) + "." + ext
}

// eachQuestion walks logs in order, passing normalized questions with a running
// zero-based index across all logs. It stops early when ctx is cancelled.
func eachQuestion(ctx context.Context, logs []model.Log, onLog func(n int, l model.Log), onQuestion func(l model.Log, q model.Question, index int)) error {
	index := 0
	for i, l := range logs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onLog != nil {
			onLog(i+1, l)
		}
		for _, q := range l.Questions {
			onQuestion(l, Normalize(q), index)
			index++
		}
	}
	return nil
}
