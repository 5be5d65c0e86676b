package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	return i18n.WithLang(context.Background(), i18n.DefaultLang)
}

func sampleLogs() []model.Log {
	return []model.Log{
		{
			ID:          model.Int(10),
			Pages:       "1-3",
			Duration:    model.NumberOf(12.5),
			InputTokens: model.NumberOf(900),
			TemplateID:  model.Int(2),
			Questions: []model.Question{
				{
					ID:          model.Int(1),
					LogID:       model.Int(10),
					Question:    "Apa ibu kota Indonesia?",
					Options:     model.SerializedStrings(`["Bandung","Jakarta","Surabaya"]`),
					Answer:      "Jakarta",
					Explanation: "Jakarta adalah ibu kota.",
					Keywords:    model.Strings("ibukota", "geografi"),
					Type:        model.TypeMultipleChoice,
					Difficulty:  model.DifficultyLOTS,
					Confidence:  model.NumberOf(0.9),
					Duration:    model.Text("1 menit"),
				},
				{
					ID:         model.Int(2),
					LogID:      model.Int(10),
					Question:   "Jakarta terletak di pulau Jawa.",
					Options:    model.Strings("Benar", "Salah"),
					Answer:     "A",
					Type:       model.TypeTrueFalse,
					Confidence: model.NumberOf(0.7),
				},
			},
		},
		{
			ID:       model.Int(11),
			Pages:    "4",
			Duration: model.NumberOf(8),
			Questions: []model.Question{
				{
					ID:         model.Int(3),
					LogID:      model.Int(11),
					Question:   "Jelaskan sejarah Jakarta.",
					Options:    model.SerializedStrings("[broken"),
					Keywords:   model.SerializedStrings(`"not a list"`),
					Type:       model.TypeEssay,
					Confidence: model.NumberOf(0.8),
				},
			},
		},
	}
}

func sampleSession() *model.Session {
	s := ComputeSessionStats(model.Session{
		ID:        model.Int(7),
		UserID:    model.Text("u-1"),
		Title:     "Sesi Geografi",
		Filename:  "materi.pdf",
		Model:     "gpt-4o",
		CreatedAt: "2024-03-05T14:07:09Z",
	}, sampleLogs())
	return &s
}

// manyLogs returns one log holding n questions.
func manyLogs(n int) []model.Log {
	l := model.Log{ID: model.Int(1), Pages: "1", Duration: model.NumberOf(3)}
	for i := 0; i < n; i++ {
		l.Questions = append(l.Questions, model.Question{
			ID:          model.Int(int64(i + 1)),
			Question:    strings.Repeat("Pertanyaan panjang tentang materi. ", 5),
			Options:     model.Strings("satu", "dua", "tiga", "empat"),
			Answer:      "dua",
			Explanation: "Penjelasan singkat.",
			Type:        model.TypeMultipleChoice,
		})
	}
	return []model.Log{l}
}

// docxBody returns the raw word/document.xml part.
func docxBody(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	var body []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		body, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
	}
	if body == nil {
		t.Fatal("docx has no word/document.xml")
	}
	return body
}

// docxText returns the text of every paragraph in the document body.
func docxText(t *testing.T, data []byte) []string {
	t.Helper()
	body := docxBody(t, data)

	var (
		paras   []string
		current strings.Builder
		inText  bool
	)
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse document.xml: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				paras = append(paras, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}
	return paras
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
