package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSV renders RFC 4180 output with a header row.
type CSV struct{}

// ContentType implements Renderer.
func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implements Renderer.
func (CSV) Extension() string { return "csv" }

// Render implements Renderer.
func (CSV) Render(w io.Writer, t Table) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("csv requires at least one header")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i := range t.Headers {
			record[i] = t.cell(row, i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
