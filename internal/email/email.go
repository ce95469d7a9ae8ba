package email

import (
	"context"
	"log"

	"github.com/Domenick1991/skybooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("send email to %s: booking %s (%s) for flight %s, charged %d",
		event.PassengerEmail, event.PNR, event.Type, event.FlightCode, event.FinalPrice)
	return nil
}
