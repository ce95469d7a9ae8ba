package domain

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type WalletTransaction struct {
	ID          int64
	WalletID    int64
	Type        TransactionType
	Amount      int64
	Description string
	BookingID   *int64
	CreatedAt   time.Time
}

// Wallet belongs to exactly one account. Its balance is mutated only through
// credit and debit operations and never goes negative.
type Wallet struct {
	ID           int64
	AccountID    int64
	Balance      int64
	Transactions []WalletTransaction
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (w *Wallet) CanCover(amount int64) bool {
	return w.Balance >= amount
}

// Shortfall is the amount missing to cover the given price, zero when the
// balance is sufficient.
func (w *Wallet) Shortfall(amount int64) int64 {
	if w.Balance >= amount {
		return 0
	}
	return amount - w.Balance
}
