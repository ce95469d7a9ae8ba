package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound     = errors.New("flight not found")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAttemptLogNotFound = errors.New("attempt log not found")

	// ErrPNRTaken means the generated PNR collided with an existing booking.
	// Callers regenerate and retry.
	ErrPNRTaken = errors.New("pnr already taken")
)

// InsufficientFundsError is returned when a wallet cannot cover a debit.
type InsufficientFundsError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: required %d, available %d, short %d",
		e.Required, e.Balance, e.Shortfall())
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Required - e.Balance
}

// ValidationError marks client input errors that are not retryable without
// fixing the input.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
