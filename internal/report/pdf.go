package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pavelanni/aisoal/internal/model"
)

// A4 layout in millimetres.
const (
	pdfMargin       = 15.0
	pdfTop          = 10.0
	pdfLineHeight   = 7.0
	pdfPageHeight   = 280.0
	pdfContentWidth = 180.0
	pdfFontSize     = 11.0
	pdfBatchGap     = 3.0
	pdfQuestionGap  = 5.0
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func newPDFWriter() *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfTop, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.AddPage()
	return &pdfWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		y:   pdfTop,
	}
}

// wrap translates text to the core font encoding and splits it to the content width.
func (w *pdfWriter) wrap(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		for _, line := range w.pdf.SplitLines([]byte(w.tr(para)), pdfContentWidth) {
			out = append(out, string(line))
		}
	}
	return out
}

// lines writes pre-wrapped lines, starting a new page whenever the next line
// would cross the page height budget.
func (w *pdfWriter) lines(lines []string) {
	for _, line := range lines {
		if w.y+pdfLineHeight > pdfPageHeight {
			w.pdf.AddPage()
			w.y = pdfTop
		}
		w.pdf.Text(pdfMargin, w.y, line)
		w.y += pdfLineHeight
	}
}

func (w *pdfWriter) gap(mm float64) {
	w.y += mm
}

func renderPDF(ctx context.Context, logs []model.Log, session *model.Session) (*fpdf.Fpdf, error) {
	w := newPDFWriter()
	modelName := sessionModel(session)

	err := eachQuestion(ctx, logs,
		func(n int, l model.Log) {
			w.pdf.SetFont("Helvetica", "B", pdfFontSize)
			w.lines([]string{w.tr(batchHeader(ctx, n, l))})
			w.pdf.SetFont("Helvetica", "", pdfFontSize)
			w.gap(pdfBatchGap)
		},
		func(_ model.Log, q model.Question, index int) {
			w.lines(w.wrap(FormatQuestion(ctx, q, index, modelName)))
			w.gap(pdfQuestionGap)
		},
	)
	if err != nil {
		return nil, err
	}
	if session != nil {
		w.lines(w.wrap(FormatSessionSummary(ctx, session)))
	}
	return w.pdf, w.pdf.Error()
}

// GeneratePDF renders a paginated A4 PDF of the question blocks and summary.
func GeneratePDF(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error) {
	pdf, err := renderPDF(ctx, logs, session)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
