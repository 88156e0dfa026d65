// Package export renders tabular data for download.
package export

import (
	"fmt"
	"io"
)

// Table is a rectangular dataset. Every row should have len(Headers) cells; short rows are padded.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer writes a Table in one file format.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, t Table) error
}

// ForFormat returns the renderer registered for format ("csv" or "pdf").
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "csv":
		return CSV{}, nil
	case "pdf":
		return PDF{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (t Table) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
