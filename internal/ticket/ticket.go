package ticket

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Domenick1991/skybooking/internal/domain"
)

// Generator renders a completed booking into a downloadable document. The
// booking core does not depend on the document format.
type Generator interface {
	Generate(ctx context.Context, booking *domain.Booking) (data []byte, contentType string, err error)
}

type TextGenerator struct{}

func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

func (g *TextGenerator) Generate(_ context.Context, b *domain.Booking) ([]byte, string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "E-TICKET %s\n", b.PNR)
	fmt.Fprintf(&buf, "Passenger: %s <%s>\n", b.PassengerName, b.PassengerEmail)
	fmt.Fprintf(&buf, "Flight:    %s %s\n", b.FlightDetails.Airline, b.FlightDetails.FlightCode)
	fmt.Fprintf(&buf, "Route:     %s - %s\n", b.FlightDetails.DepartureCity, b.FlightDetails.ArrivalCity)
	fmt.Fprintf(&buf, "Departs:   %s  Arrives: %s  (%s)\n", b.FlightDetails.DepartureTime, b.FlightDetails.ArrivalTime, b.FlightDetails.Duration)
	fmt.Fprintf(&buf, "Base fare: %d\n", b.BasePrice)
	if b.SurgeApplied {
		fmt.Fprintf(&buf, "Surge:     +%d%%\n", b.SurgePercentage)
	}
	fmt.Fprintf(&buf, "Charged:   %d\n", b.FinalPrice)
	fmt.Fprintf(&buf, "Status:    %s\n", b.Status)
	fmt.Fprintf(&buf, "Booked:    %s\n", b.BookingDate.Format("2006-01-02 15:04:05 MST"))
	return buf.Bytes(), "text/plain; charset=utf-8", nil
}

var _ Generator = (*TextGenerator)(nil)
