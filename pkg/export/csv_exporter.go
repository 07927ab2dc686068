package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Section is a titled group of rows, e.g. one term of a plan.
type Section struct {
	Title  string
	Rows   []map[string]string
	Footer string
}

// Dataset defines tabular export content split into sections.
type Dataset struct {
	Headers  []string
	Sections []Section
	Summary  []string
}

// Rows flattens every section in order.
func (d Dataset) Rows() []map[string]string {
	var rows []map[string]string
	for _, section := range d.Sections {
		rows = append(rows, section.Rows...)
	}
	return rows
}

// CSVExporter renders Dataset records into CSV bytes. Section titles and footers are dropped;
// callers that need the term should carry it as a column.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows() {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
