package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVRenderer renders datasets as RFC 4180 CSV.
type CSVRenderer struct{}

// NewCSVRenderer builds a CSV renderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// ContentType implements Renderer.
func (r *CSVRenderer) ContentType() string { return "text/csv" }

// Extension implements Renderer.
func (r *CSVRenderer) Extension() string { return "csv" }

// Render implements Renderer. The title is not part of CSV output.
func (r *CSVRenderer) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(data.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
