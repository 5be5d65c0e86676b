package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned for an export format token that has no generator.
var ErrInvalidFormat = errors.New("invalid export format")

// Format identifies an export document type by its file extension.
type Format string

const (
	FormatWord Format = "docx"
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the single-session export formats.
var Formats = []Format{FormatWord, FormatPDF, FormatText, FormatCSV, FormatXLSX, FormatJSON}

// ParseFormat validates a format token.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type used when delivering the document.
func (f Format) ContentType() string {
	switch f {
	case FormatWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	case FormatText:
		return "text/plain;charset=utf-8"
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatXLSX:
		return "application/octet-stream"
	case FormatJSON:
		return "application/json;charset=utf-8"
	}
	return "application/octet-stream"
}

// ZipContentType is the MIME type of a bulk export archive.
const ZipContentType = "application/zip"
