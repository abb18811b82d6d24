package export

import (
	"fmt"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Dataset is an ordered table. Every row must have len(Headers) cells.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer encodes a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ParseFormat maps a query value to a Format, defaulting to CSV when empty.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return NewCSVRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("export requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}
