package exports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a printable request ledger, one line per request.
func WritePDF(w io.Writer, rows []Row) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(40, 10, "Solicitudes")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{28, 18, 45, 22, 30, 20, 28, 40, 24}
	titles := []string{"ID", "Code", "Name", "Category", "Type", "Status", "Zone", "Dates", "Created"}
	for i, title := range titles {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		cells := []string{row.ID, row.Code, row.Name, row.Category, row.Type, row.Status, row.Zone, row.Dates, row.CreatedAt}
		for i, value := range cells {
			pdf.CellFormat(widths[i], 6, truncate(value, 30), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("%d solicitudes", len(rows)))

	return pdf.Output(w)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
