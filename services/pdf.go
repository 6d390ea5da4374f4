package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type PDFData struct {
	TravelerName  string
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Flight        Flight
	Hotel         Hotel
	Activities    []ActivityPrice
	NumNights     int
	TotalCost     float64
}

// GeneratePDFBytes renders the composed itinerary as a PDF and returns raw
// bytes; nothing touches the filesystem.
func GeneratePDFBytes(data PDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "WanderPlan", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Composed Travel Itinerary", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Disclaimer ───────────────────────────────────────────
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	pdf.MultiCell(164, 4,
		"This is NOT a booking confirmation. Prices are live quotes or estimates and subject to change. Verify with providers before booking.",
		"", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Traveler Info ─────────────────────────────────────────
	sectionHeader("Traveler Information")
	name := data.TravelerName
	if name == "" {
		name = "Guest Traveler"
	}
	row("Name", name)
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Route", fmt.Sprintf("%s - %s - %s", data.Origin, data.Destination, data.Origin))
	row("Departure", fmtDateReadable(data.DepartureDate))
	row("Return", fmtDateReadable(data.ReturnDate))
	row("Duration", fmt.Sprintf("%d nights", data.NumNights))
	pdf.Ln(4)

	// ── Selected Flight ───────────────────────────────────────
	sectionHeader("Selected Flight")
	row("Carrier", legCarrier(data.Flight.OutboundLeg))
	row("Outbound", formatFlightLeg(data.Flight.OutboundLeg))
	row("Return", formatFlightLeg(data.Flight.ReturnLeg))
	stops := "Direct"
	if data.Flight.OutboundLeg.Stops > 0 {
		stops = fmt.Sprintf("%d stop(s)", data.Flight.OutboundLeg.Stops)
	}
	row("Stops", stops)
	row("Price", fmt.Sprintf("%.0f %s per person (round-trip)", data.Flight.Price, data.Flight.Currency))
	pdf.Ln(4)

	// ── Selected Hotel ────────────────────────────────────────
	sectionHeader("Selected Hotel")
	row("Hotel", data.Hotel.Name)
	row("Rating", fmt.Sprintf("%.1f / 5.0 (%d reviews)", data.Hotel.Rating, data.Hotel.Reviews))
	if data.Hotel.HotelClass > 0 {
		row("Class", fmt.Sprintf("%d-star", data.Hotel.HotelClass))
	}
	row("Check-in", fmtDateReadable(data.DepartureDate))
	row("Check-out", fmtDateReadable(data.ReturnDate))
	row("Price", fmt.Sprintf("$%.0f/night x %d nights = $%.0f",
		data.Hotel.PricePerNight, data.NumNights, data.Hotel.PricePerNight*float64(data.NumNights)))
	pdf.Ln(4)

	// ── Activities ────────────────────────────────────────────
	if len(data.Activities) > 0 {
		sectionHeader("Activity Prices")
		for _, a := range data.Activities {
			label := a.PriceFormatted
			if a.Source != "" {
				label += fmt.Sprintf("  (%s)", a.Source)
			}
			row(a.Activity, label)
		}
		pdf.Ln(4)
	}

	// ── Cost Summary ──────────────────────────────────────────
	sectionHeader("Cost Estimate")
	row("Flight (per person)", fmt.Sprintf("$%.0f", data.Flight.Price))
	row("Hotel total", fmt.Sprintf("$%.0f", data.Hotel.PricePerNight*float64(data.NumNights)))

	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL ESTIMATE", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.0f", data.TotalCost), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by WanderPlan Travel Planner - Not a booking confirmation - Prices subject to change",
		"", 0, "C", false, 0, "")

	// ── Write to buffer ───────────────────────────────────────
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtDateReadable(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}

func legCarrier(leg Leg) string {
	if len(leg.Segments) > 0 && leg.Segments[0].Carrier != "" {
		return leg.Segments[0].Carrier
	}
	return "Unknown Carrier"
}

func formatFlightLeg(leg Leg) string {
	dep, err1 := time.Parse(time.RFC3339, leg.Departure)
	arr, err2 := time.Parse(time.RFC3339, leg.Arrival)
	if err1 != nil || err2 != nil {
		if leg.Departure != "" && leg.Arrival != "" {
			return leg.Departure + " - " + leg.Arrival
		}
		return "N/A"
	}
	result := fmt.Sprintf("%s - %s", dep.Format("02 Jan 15:04"), arr.Format("02 Jan 15:04"))
	if leg.DurationMinutes > 0 {
		result += fmt.Sprintf(" (%dh %dm)", leg.DurationMinutes/60, leg.DurationMinutes%60)
	}
	return result
}
