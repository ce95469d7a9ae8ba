package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/google/uuid"
)

// pnrAttempts bounds PNR regeneration on collision before giving up.
const pnrAttempts = 5

type CreateBookingInput struct {
	FlightID       int64  `json:"flight_id"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
	PassengerPhone string `json:"passenger_phone"`
}

// BookingResult carries the created booking together with the wallet balance
// left after the debit.
type BookingResult struct {
	Booking    *domain.Booking
	NewBalance int64
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, accountID int64, input CreateBookingInput) (*BookingResult, error)
	ListBookings(ctx context.Context, accountID int64) ([]domain.Booking, error)
	GetBooking(ctx context.Context, accountID, id int64) (*domain.Booking, error)
	GetBookingByPNR(ctx context.Context, accountID int64, pnr string) (*domain.Booking, error)
	Ticket(ctx context.Context, accountID, id int64) (*domain.Booking, []byte, string, error)
}

// Pricing is the slice of the pricing service the booking flow needs.
type Pricing interface {
	RecordAttempt(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error)
	Quote(ctx context.Context, accountID, flightID, basePrice int64) domain.PriceQuote
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type TicketGenerator interface {
	Generate(ctx context.Context, booking *domain.Booking) ([]byte, string, error)
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	pricing            Pricing
	producer           Producer
	cache              Cache
	tickets            TicketGenerator
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	pricing Pricing,
	producer Producer,
	tickets TicketGenerator,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		pricing:      pricing,
		producer:     producer,
		tickets:      tickets,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking runs the booking transaction: the attempt is recorded first,
// so the price charged is the price after this attempt is counted. The
// balance check, booking insert, wallet debit and seat decrement commit as
// one unit in the repository.
func (s *BookingService) CreateBooking(ctx context.Context, accountID int64, input CreateBookingInput) (*BookingResult, error) {
	if input.FlightID <= 0 {
		return nil, domain.ValidationError("flight id is required")
	}
	if input.PassengerName == "" {
		return nil, domain.ValidationError("passenger name is required")
	}
	if input.PassengerEmail == "" {
		return nil, domain.ValidationError("passenger email is required")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	if _, err := s.pricing.RecordAttempt(ctx, accountID, flight.ID); err != nil {
		return nil, fmt.Errorf("record booking attempt: %w", err)
	}

	quote := s.pricing.Quote(ctx, accountID, flight.ID, flight.BasePrice)

	booking := &domain.Booking{
		AccountID:      accountID,
		FlightID:       flight.ID,
		PassengerName:  input.PassengerName,
		PassengerEmail: input.PassengerEmail,
		PassengerPhone: input.PassengerPhone,
		FlightDetails: domain.FlightDetails{
			FlightCode:    flight.Code,
			Airline:       flight.Airline,
			DepartureCity: flight.DepartureCity,
			ArrivalCity:   flight.ArrivalCity,
			DepartureTime: flight.DepartureTime,
			ArrivalTime:   flight.ArrivalTime,
			Duration:      flight.Duration,
		},
		BasePrice:       quote.BasePrice,
		SurgeApplied:    quote.SurgeActive,
		SurgePercentage: quote.SurgePercentage,
		FinalPrice:      quote.FinalPrice,
	}

	description := fmt.Sprintf("Flight booking - %s (%s to %s)", flight.Code, flight.DepartureCity, flight.ArrivalCity)

	var newBalance int64
	for attempt := 0; ; attempt++ {
		booking.PNR = generatePNR()
		newBalance, err = s.bookings.CreateConfirmed(ctx, booking, description)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrPNRTaken) && attempt < pnrAttempts-1 {
			continue
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	if err := s.publish(ctx, "booking_confirmed", booking); err != nil {
		log.Printf("publish booking_confirmed for %s: %v", booking.PNR, err)
	}

	return &BookingResult{Booking: booking, NewBalance: newBalance}, nil
}

func (s *BookingService) ListBookings(ctx context.Context, accountID int64) ([]domain.Booking, error) {
	return s.bookings.ListByAccount(ctx, accountID)
}

func (s *BookingService) GetBooking(ctx context.Context, accountID, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id, accountID)
}

func (s *BookingService) GetBookingByPNR(ctx context.Context, accountID int64, pnr string) (*domain.Booking, error) {
	return s.bookings.GetByPNR(ctx, strings.ToUpper(pnr), accountID)
}

func (s *BookingService) Ticket(ctx context.Context, accountID, id int64) (*domain.Booking, []byte, string, error) {
	booking, err := s.bookings.GetByID(ctx, id, accountID)
	if err != nil {
		return nil, nil, "", err
	}
	data, contentType, err := s.tickets.Generate(ctx, booking)
	if err != nil {
		return nil, nil, "", err
	}
	return booking, data, contentType, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		PNR:            booking.PNR,
		BookingID:      booking.ID,
		AccountID:      booking.AccountID,
		FlightCode:     booking.FlightDetails.FlightCode,
		PassengerName:  booking.PassengerName,
		PassengerEmail: booking.PassengerEmail,
		FinalPrice:     booking.FinalPrice,
		Status:         string(booking.Status),
		BookedAt:       booking.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

// generatePNR derives an 8-character uppercase code from a v4 UUID. Collisions
// are detected by the unique index and retried by the caller loop.
func generatePNR() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

var _ BookingUseCase = (*BookingService)(nil)
