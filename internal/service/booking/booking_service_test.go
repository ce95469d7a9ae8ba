package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking, debitDescription string) (int64, error) {
	args := m.Called(ctx, booking, debitDescription)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id, accountID int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByPNR(ctx context.Context, pnr string, accountID int64) (*domain.Booking, error) {
	args := m.Called(ctx, pnr, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockPricing struct {
	mock.Mock
}

func (m *MockPricing) RecordAttempt(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error) {
	args := m.Called(ctx, accountID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttemptLog), args.Error(1)
}

func (m *MockPricing) Quote(ctx context.Context, accountID, flightID, basePrice int64) domain.PriceQuote {
	args := m.Called(ctx, accountID, flightID, basePrice)
	return args.Get(0).(domain.PriceQuote)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTicketGenerator struct {
	mock.Mock
}

func (m *MockTicketGenerator) Generate(ctx context.Context, booking *domain.Booking) ([]byte, string, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func testFlight() *domain.Flight {
	return &domain.Flight{
		ID:            4,
		Code:          "AI101",
		Airline:       "Air India",
		DepartureCity: "Mumbai",
		ArrivalCity:   "Delhi",
		DepartureTime: "06:00",
		ArrivalTime:   "08:10",
		Duration:      "2h 10m",
		BasePrice:     2500,
	}
}

func surgedQuote() domain.PriceQuote {
	remaining := (10 * time.Minute).Milliseconds()
	return domain.PriceQuote{
		BasePrice:       2500,
		FinalPrice:      2750,
		SurgeActive:     true,
		SurgePercentage: 10,
		TimeRemaining:   &remaining,
		AttemptsCount:   3,
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}
	mockProducer := &MockProducer{}
	mockCache := &MockCache{}

	service := &BookingService{
		bookings:     mockBookings,
		flights:      mockFlights,
		pricing:      mockPricing,
		producer:     mockProducer,
		cache:        mockCache,
		bookingTopic: "booking_events",
	}

	ctx := context.Background()
	input := CreateBookingInput{
		FlightID:       4,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	}

	mockFlights.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockPricing.On("RecordAttempt", ctx, int64(7), int64(4)).Return(&domain.AttemptLog{}, nil).Once()
	mockPricing.On("Quote", ctx, int64(7), int64(4), int64(2500)).Return(surgedQuote()).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking"), "Flight booking - AI101 (Mumbai to Delhi)").
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*domain.Booking)
			b.ID = 42
			b.Status = domain.BookingStatusConfirmed
		}).
		Return(int64(47250), nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, 7, input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(47250), result.NewBalance)
	assert.Equal(t, int64(42), result.Booking.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.Status)
	assert.Equal(t, int64(2500), result.Booking.BasePrice)
	assert.Equal(t, int64(2750), result.Booking.FinalPrice)
	assert.True(t, result.Booking.SurgeApplied)
	assert.Equal(t, int64(10), result.Booking.SurgePercentage)
	assert.Len(t, result.Booking.PNR, 8)
	assert.Equal(t, "AI101", result.Booking.FlightDetails.FlightCode)
	assert.Equal(t, "Mumbai", result.Booking.FlightDetails.DepartureCity)

	mockFlights.AssertExpectations(t)
	mockPricing.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service := &BookingService{}
	ctx := context.Background()

	testCases := []struct {
		name        string
		input       CreateBookingInput
		expectedErr string
	}{
		{
			name:        "missing flight id",
			input:       CreateBookingInput{PassengerName: "Asha Rao", PassengerEmail: "asha@example.com"},
			expectedErr: "flight id is required",
		},
		{
			name:        "missing passenger name",
			input:       CreateBookingInput{FlightID: 4, PassengerEmail: "asha@example.com"},
			expectedErr: "passenger name is required",
		},
		{
			name:        "missing passenger email",
			input:       CreateBookingInput{FlightID: 4, PassengerName: "Asha Rao"},
			expectedErr: "passenger email is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.CreateBooking(ctx, 7, tc.input)
			assert.Error(t, err)
			assert.Nil(t, result)

			var invalid domain.ValidationError
			assert.True(t, errors.As(err, &invalid))
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestBookingService_CreateBooking_FlightNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}

	service := &BookingService{bookings: mockBookings, flights: mockFlights, pricing: mockPricing}

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	result, err := service.CreateBooking(ctx, 7, CreateBookingInput{
		FlightID:       99,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockPricing.AssertNotCalled(t, "RecordAttempt")
	mockBookings.AssertNotCalled(t, "CreateConfirmed")
}

func TestBookingService_CreateBooking_RecordAttemptErrorAborts(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}

	service := &BookingService{bookings: mockBookings, flights: mockFlights, pricing: mockPricing}

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockPricing.On("RecordAttempt", ctx, int64(7), int64(4)).Return(nil, errors.New("write failed")).Once()

	result, err := service.CreateBooking(ctx, 7, CreateBookingInput{
		FlightID:       4,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	mockPricing.AssertNotCalled(t, "Quote")
	mockBookings.AssertNotCalled(t, "CreateConfirmed")
}

func TestBookingService_CreateBooking_InsufficientFunds(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}
	mockProducer := &MockProducer{}

	service := &BookingService{
		bookings:     mockBookings,
		flights:      mockFlights,
		pricing:      mockPricing,
		producer:     mockProducer,
		bookingTopic: "booking_events",
	}

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockPricing.On("RecordAttempt", ctx, int64(7), int64(4)).Return(&domain.AttemptLog{}, nil).Once()
	mockPricing.On("Quote", ctx, int64(7), int64(4), int64(2500)).Return(domain.NeutralQuote(2500)).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).
		Return(int64(0), &domain.InsufficientFundsError{Required: 2500, Balance: 2000}).Once()

	result, err := service.CreateBooking(ctx, 7, CreateBookingInput{
		FlightID:       4,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	})

	assert.Nil(t, result)

	var insufficient *domain.InsufficientFundsError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(500), insufficient.Shortfall())
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_CreateBooking_RetriesPNRCollision(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}

	service := &BookingService{bookings: mockBookings, flights: mockFlights, pricing: mockPricing}

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockPricing.On("RecordAttempt", ctx, int64(7), int64(4)).Return(&domain.AttemptLog{}, nil).Once()
	mockPricing.On("Quote", ctx, int64(7), int64(4), int64(2500)).Return(domain.NeutralQuote(2500)).Once()

	var pnrs []string
	record := func(args mock.Arguments) {
		pnrs = append(pnrs, args.Get(1).(*domain.Booking).PNR)
	}
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).
		Run(record).Return(int64(0), domain.ErrPNRTaken).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).
		Run(record).Return(int64(47500), nil).Once()

	result, err := service.CreateBooking(ctx, 7, CreateBookingInput{
		FlightID:       4,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Len(t, pnrs, 2)
	assert.NotEqual(t, pnrs[0], pnrs[1])
	assert.Equal(t, pnrs[1], result.Booking.PNR)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_CreateBooking_WalletNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockPricing := &MockPricing{}

	service := &BookingService{bookings: mockBookings, flights: mockFlights, pricing: mockPricing}

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(4)).Return(testFlight(), nil).Once()
	mockPricing.On("RecordAttempt", ctx, int64(7), int64(4)).Return(&domain.AttemptLog{}, nil).Once()
	mockPricing.On("Quote", ctx, int64(7), int64(4), int64(2500)).Return(domain.NeutralQuote(2500)).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking"), mock.Anything).
		Return(int64(0), domain.ErrWalletNotFound).Once()

	result, err := service.CreateBooking(ctx, 7, CreateBookingInput{
		FlightID:       4,
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestBookingService_GetBookingByPNR_UppercasesInput(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := &BookingService{bookings: mockBookings}

	ctx := context.Background()
	b := &domain.Booking{ID: 42, PNR: "AB12CD34"}
	mockBookings.On("GetByPNR", ctx, "AB12CD34", int64(7)).Return(b, nil).Once()

	got, err := service.GetBookingByPNR(ctx, 7, "ab12cd34")

	assert.NoError(t, err)
	assert.Equal(t, b, got)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_Ticket(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTickets := &MockTicketGenerator{}
	service := &BookingService{bookings: mockBookings, tickets: mockTickets}

	ctx := context.Background()
	b := &domain.Booking{ID: 42, PNR: "AB12CD34", AccountID: 7}
	mockBookings.On("GetByID", ctx, int64(42), int64(7)).Return(b, nil).Once()
	mockTickets.On("Generate", ctx, b).Return([]byte("E-TICKET AB12CD34"), "text/plain; charset=utf-8", nil).Once()

	got, data, contentType, err := service.Ticket(ctx, 7, 42)

	assert.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.Contains(t, string(data), "AB12CD34")
	mockBookings.AssertExpectations(t)
	mockTickets.AssertExpectations(t)
}

func TestBookingService_Ticket_BookingNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTickets := &MockTicketGenerator{}
	service := &BookingService{bookings: mockBookings, tickets: mockTickets}

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, int64(42), int64(7)).Return(nil, domain.ErrBookingNotFound).Once()

	_, _, _, err := service.Ticket(ctx, 7, 42)

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	mockTickets.AssertNotCalled(t, "Generate")
}
