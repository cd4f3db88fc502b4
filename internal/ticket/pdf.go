// Package ticket renders pending reservations as PDF e-tickets.  The
// checkout flow offers the document as a download once a selection has been
// confirmed; it is informational only and carries no payment state.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// Build renders one pending reservation into a PDF document.  It returns
// the raw PDF bytes together with a download filename derived from the trip
// and seat numbers.  The reservation must already be enriched with trip
// metadata; missing fields render as "-" rather than failing the build.
func Build(res *model.PendingReservation) ([]byte, string, error) {
	if res == nil || len(res.Seats) == 0 {
		return nil, "", fmt.Errorf("ticket: empty reservation")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Movitex E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MOVITEX E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Route      : %s -> %s", orDash(res.OriginCity), orDash(res.DestCity)),
		fmt.Sprintf("Terminals  : %s -> %s", orDash(res.OriginTerminal), orDash(res.DestTerminal)),
		fmt.Sprintf("Service    : %s", orDash(res.ServiceType)),
		fmt.Sprintf("Date       : %s", orDash(res.TripDate)),
		fmt.Sprintf("Departure  : %s", orDash(res.DepartureTime)),
		fmt.Sprintf("Arrival    : %s", orDash(res.ArrivalTime)),
		fmt.Sprintf("Seats      : %s", seatList(res.Seats)),
		fmt.Sprintf("Total      : S/ %.2f", res.TotalPrice),
		fmt.Sprintf("Reserved   : %s", res.CreatedAt.UTC().Format("2006-01-02 15:04 MST")),
		fmt.Sprintf("Expires    : %s", res.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Seat detail")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, s := range res.Seats {
		pdf.Cell(0, 6, fmt.Sprintf("Seat %d  floor %d  recline %d  S/ %.2f", s.SeatNumber, s.Floor, s.ReclineAngle, s.Price))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This reservation holds the listed seats until the expiry time shown above. Complete the purchase before then to keep them.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(res.TripID), seatFilePart(res.Seats))
	return buf.Bytes(), filename, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func seatList(seats []model.ReservationSeat) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, fmt.Sprintf("%d", s.SeatNumber))
	}
	return strings.Join(parts, ", ")
}

func seatFilePart(seats []model.ReservationSeat) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, fmt.Sprintf("%d", s.SeatNumber))
	}
	return strings.Join(parts, "-")
}

// safeFilenamePart strips characters that would break a Content-Disposition
// filename, keeping letters, digits, dashes and underscores.
func safeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "ticket"
	}
	return b.String()
}
