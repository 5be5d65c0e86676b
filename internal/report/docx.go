package report

import (
	"bytes"
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/stypes"
)

const docxTableStyle = "TableGrid"

// docxRun is a span of text sharing one format. Size is in points.
type docxRun struct {
	Text  string
	Bold  bool
	Size  uint64
	Color string
}

type docxParagraph struct {
	Runs   []docxRun
	Center bool
}

// docxCell holds the paragraphs of one table cell. A cell spanning several
// grid columns is followed by empty cells: godocx cannot merge cells.
type docxCell struct {
	Paragraphs []docxParagraph
	Span       int
}

type docxRow []docxCell

func newDocx() (*docx.RootDoc, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}
	return doc, nil
}

func writeRuns(p *docx.Paragraph, para docxParagraph) {
	if para.Center {
		p.Justification(stypes.JustificationCenter)
	}
	for _, r := range para.Runs {
		run := p.AddText(r.Text)
		if r.Bold {
			run.Bold(true)
		}
		if r.Size > 0 {
			run.Size(r.Size)
		}
		if r.Color != "" {
			run.Color(r.Color)
		}
	}
}

// addParagraph appends a body paragraph.
func addParagraph(doc *docx.RootDoc, para docxParagraph) {
	writeRuns(doc.AddEmptyParagraph(), para)
}

// addLines appends one plain paragraph per line.
func addLines(doc *docx.RootDoc, lines []string) {
	for _, line := range lines {
		doc.AddParagraph(line)
	}
}

func addTable(doc *docx.RootDoc, rows []docxRow) {
	tbl := doc.AddTable()
	tbl.Style(docxTableStyle)
	for _, r := range rows {
		row := tbl.AddRow()
		for _, c := range r {
			cell := row.AddCell()
			if len(c.Paragraphs) == 0 {
				cell.AddEmptyPara()
			}
			for _, para := range c.Paragraphs {
				writeRuns(cell.AddEmptyPara(), para)
			}
			for i := 1; i < c.Span; i++ {
				row.AddCell().AddEmptyPara()
			}
		}
	}
}

func docxBytes(doc *docx.RootDoc) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
