package domain

import "time"

type Flight struct {
	ID             int64
	Code           string
	Airline        string
	DepartureCity  string
	ArrivalCity    string
	DepartureTime  string
	ArrivalTime    string
	Duration       string
	BasePrice      int64
	AvailableSeats int
	Aircraft       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
