package report

import (
	"context"
	"strings"

	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
)

// GenerateWord renders a DOCX document: a heading per batch, one paragraph per
// line of each question block, then a page break and the session summary.
func GenerateWord(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error) {
	doc, err := newDocx()
	if err != nil {
		return nil, err
	}
	modelName := sessionModel(session)

	err = eachQuestion(ctx, logs,
		func(n int, l model.Log) {
			data := batchData(n, l)
			addParagraph(doc, docxParagraph{Runs: []docxRun{{Text: i18n.Td(ctx, "BatchHeading", data), Bold: true, Size: 14}}})
			addParagraph(doc, docxParagraph{Runs: []docxRun{{Text: i18n.Td(ctx, "BatchMeta", data), Size: 10, Color: "555555"}}})
			doc.AddEmptyParagraph()
		},
		func(_ model.Log, q model.Question, index int) {
			addLines(doc, strings.Split(FormatQuestion(ctx, q, index, modelName), "\n"))
		},
	)
	if err != nil {
		return nil, err
	}

	if summary := FormatSessionSummary(ctx, session); summary != "" {
		doc.AddPageBreak()
		addLines(doc, strings.Split(summary, "\n"))
	}
	return docxBytes(doc)
}
