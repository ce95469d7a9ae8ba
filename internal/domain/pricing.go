package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SurgePolicy holds the knobs of the dynamic pricing engine.
type SurgePolicy struct {
	AttemptWindow    time.Duration
	SurgeDuration    time.Duration
	AttemptThreshold int
	SurgePercent     int64
}

func DefaultSurgePolicy() SurgePolicy {
	return SurgePolicy{
		AttemptWindow:    5 * time.Minute,
		SurgeDuration:    10 * time.Minute,
		AttemptThreshold: 3,
		SurgePercent:     10,
	}
}

func (p SurgePolicy) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(100 + p.SurgePercent).Div(decimal.NewFromInt(100))
}

// AttemptLog tracks recent booking attempts for one (account, flight) pair.
// There is at most one row per pair; concurrent mutations must be serialized
// by the repository.
type AttemptLog struct {
	ID             int64
	AccountID      int64
	FlightID       int64
	Attempts       []time.Time
	SurgeActive    bool
	SurgeStartedAt *time.Time
	LastAttempt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecordAttempt drops attempts that fell out of the sliding window, appends
// a new one and activates surge once the threshold is reached.
func (l *AttemptLog) RecordAttempt(now time.Time, policy SurgePolicy) {
	cutoff := now.Add(-policy.AttemptWindow)
	kept := l.Attempts[:0]
	for _, at := range l.Attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	l.Attempts = append(kept, now)
	l.LastAttempt = now

	if len(l.Attempts) >= policy.AttemptThreshold && !l.SurgeActive {
		l.SurgeActive = true
		started := now
		l.SurgeStartedAt = &started
	}
}

// CheckSurgeReset deactivates an expired surge and clears the attempt list,
// so the next attempt starts from a clean slate. Returns true if the state
// changed and needs to be persisted.
func (l *AttemptLog) CheckSurgeReset(now time.Time, policy SurgePolicy) bool {
	if !l.SurgeActive || l.SurgeStartedAt == nil {
		return false
	}
	if now.Sub(*l.SurgeStartedAt) <= policy.SurgeDuration {
		return false
	}
	l.SurgeActive = false
	l.SurgeStartedAt = nil
	l.Attempts = nil
	return true
}

// SurgeTimeRemaining reports how long the active surge still lasts, in
// milliseconds. Nil when no surge is active.
func (l *AttemptLog) SurgeTimeRemaining(now time.Time, policy SurgePolicy) *int64 {
	if !l.SurgeActive || l.SurgeStartedAt == nil {
		return nil
	}
	ms := l.SurgeStartedAt.Add(policy.SurgeDuration).Sub(now).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return &ms
}

// PriceQuote is the price snapshot returned to a caller. It commits no state.
type PriceQuote struct {
	BasePrice       int64  `json:"basePrice"`
	FinalPrice      int64  `json:"finalPrice"`
	SurgeActive     bool   `json:"surgeActive"`
	SurgePercentage int64  `json:"surgePercentage"`
	TimeRemaining   *int64 `json:"timeRemaining"`
	AttemptsCount   int    `json:"attemptsCount"`
}

// NeutralQuote is the quote for callers with no attempt history, and the
// fallback when pricing state cannot be read.
func NeutralQuote(basePrice int64) PriceQuote {
	return PriceQuote{BasePrice: basePrice, FinalPrice: basePrice}
}

// Quote derives the current quote from the log state. The caller is expected
// to have applied CheckSurgeReset first. The attempts count reflects the
// stored list as-is; only the write path prunes it to the window.
func (l *AttemptLog) Quote(basePrice int64, now time.Time, policy SurgePolicy) PriceQuote {
	if l == nil {
		return NeutralQuote(basePrice)
	}
	q := NeutralQuote(basePrice)
	q.AttemptsCount = len(l.Attempts)
	if !l.SurgeActive {
		return q
	}
	q.SurgeActive = true
	q.SurgePercentage = policy.SurgePercent
	q.TimeRemaining = l.SurgeTimeRemaining(now, policy)
	q.FinalPrice = decimal.NewFromInt(basePrice).Mul(policy.Multiplier()).Round(0).IntPart()
	return q
}
