package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders sectioned datasets into a PDF with one table per section.
type PDFExporter struct {
	// Widths optionally fixes column widths (mm) by header; unset headers share the remainder.
	Widths map[string]float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a title, one table per section and trailing summary lines.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := e.columnWidths(data.Headers)
	for _, section := range data.Sections {
		if section.Title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, tr(section.Title), "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 9)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range section.Rows {
			for i, header := range data.Headers {
				pdf.CellFormat(widths[i], 6, tr(truncate(pdf, row[header], widths[i])), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}

		if section.Footer != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 6, tr(section.Footer), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	if len(data.Summary) > 0 {
		pdf.SetFont("Arial", "B", 10)
		for _, line := range data.Summary {
			pdf.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(headers []string) []float64 {
	widths := make([]float64, len(headers))
	remaining := pageWidth
	free := 0
	for i, header := range headers {
		if w, ok := e.Widths[header]; ok && w > 0 {
			widths[i] = w
			remaining -= w
			continue
		}
		free++
	}
	if free == 0 {
		return widths
	}
	share := remaining / float64(free)
	if share < 10 {
		share = 10
	}
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = share
		}
	}
	return widths
}

func truncate(pdf *gofpdf.Fpdf, value string, width float64) string {
	if pdf.GetStringWidth(value) <= width-2 {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width-2 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
