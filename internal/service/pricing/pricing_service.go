package pricing

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/repository"
)

type PricingUseCase interface {
	// RecordAttempt appends an attempt for the pair, possibly flipping surge
	// on. The returned log reflects the post-attempt state.
	RecordAttempt(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error)
	// Quote returns the current quote for the pair. It never fails: any
	// lookup fault degrades to a base-price quote.
	Quote(ctx context.Context, accountID, flightID, basePrice int64) domain.PriceQuote
}

type PricingService struct {
	logs   repository.PricingRepository
	policy domain.SurgePolicy
	now    func() time.Time
}

func NewPricingService(logs repository.PricingRepository, policy domain.SurgePolicy) *PricingService {
	return &PricingService{logs: logs, policy: policy, now: time.Now}
}

func (s *PricingService) RecordAttempt(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error) {
	return s.logs.RecordAttempt(ctx, accountID, flightID, s.now(), s.policy)
}

func (s *PricingService) Quote(ctx context.Context, accountID, flightID, basePrice int64) domain.PriceQuote {
	now := s.now()

	entry, err := s.logs.Get(ctx, accountID, flightID)
	if err != nil {
		if !errors.Is(err, domain.ErrAttemptLogNotFound) {
			// Fail open: a pricing fault must not block the price display.
			log.Printf("pricing lookup for account %d flight %d failed, serving base price: %v", accountID, flightID, err)
		}
		return domain.NeutralQuote(basePrice)
	}

	if entry.CheckSurgeReset(now, s.policy) {
		if err := s.logs.Save(ctx, entry); err != nil {
			log.Printf("persist surge reset for account %d flight %d failed, serving base price: %v", accountID, flightID, err)
			return domain.NeutralQuote(basePrice)
		}
	}

	return entry.Quote(basePrice, now, s.policy)
}

var _ PricingUseCase = (*PricingService)(nil)
