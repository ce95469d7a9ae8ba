package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusPending   BookingStatus = "pending"
)

// FlightDetails is the route snapshot captured at booking time. Flight data
// may change later without affecting issued tickets.
type FlightDetails struct {
	FlightCode    string
	Airline       string
	DepartureCity string
	ArrivalCity   string
	DepartureTime string
	ArrivalTime   string
	Duration      string
}

type Booking struct {
	ID              int64
	PNR             string
	AccountID       int64
	FlightID        int64
	PassengerName   string
	PassengerEmail  string
	PassengerPhone  string
	FlightDetails   FlightDetails
	BasePrice       int64
	SurgeApplied    bool
	SurgePercentage int64
	FinalPrice      int64
	Status          BookingStatus
	BookingDate     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
