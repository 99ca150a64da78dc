// internal/export/pdf.go

// Package export renders recorded trips into shareable documents.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"trip-planner/internal/models"
)

// WritePDF renders the trip as a printable A4 document and returns the
// raw PDF bytes.
func WritePDF(entry *models.TripHistoryEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Trip to %s", entry.Request.Destination), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Trip to %s", entry.Request.Destination))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d days | %s budget | generated %s",
		entry.Request.Days,
		entry.Request.BudgetTier,
		entry.Itinerary.GeneratedAt.Format("2 Jan 2006")))
	pdf.Ln(10)

	if entry.Itinerary.Degraded {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, "This itinerary was generated without live research results.", "", "L", false)
		pdf.Ln(4)
	}

	for _, day := range entry.Itinerary.DayPlans {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Day %d", day.DayIndex))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range day.Items {
			line := fmt.Sprintf("%s: %s", strings.Title(string(item.TimeSlot)), item.POIRef)
			if item.Note != "" {
				line += " - " + item.Note
			}
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
		pdf.Ln(4)
	}

	if entry.Itinerary.SummaryText != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Summary")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, entry.Itinerary.SummaryText, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
