package wallet

import (
	"context"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/repository"
)

// recentTransactions caps the history returned with the wallet.
const recentTransactions = 20

type BalanceCheck struct {
	Sufficient     bool  `json:"hasSufficientBalance"`
	CurrentBalance int64 `json:"currentBalance"`
	RequiredAmount int64 `json:"requiredAmount"`
	Shortfall      int64 `json:"shortfall"`
}

type WalletUseCase interface {
	// GetWallet returns the account's wallet, creating it with the starting
	// credit on first touch.
	GetWallet(ctx context.Context, accountID int64) (*domain.Wallet, error)
	Balance(ctx context.Context, accountID int64) (int64, error)
	CheckBalance(ctx context.Context, accountID, amount int64) (*BalanceCheck, error)
	AddFunds(ctx context.Context, accountID, amount int64) (*domain.Wallet, error)
}

type WalletService struct {
	wallets        repository.WalletRepository
	initialBalance int64
}

func NewWalletService(wallets repository.WalletRepository, initialBalance int64) *WalletService {
	return &WalletService{wallets: wallets, initialBalance: initialBalance}
}

func (s *WalletService) GetWallet(ctx context.Context, accountID int64) (*domain.Wallet, error) {
	w, err := s.wallets.GetOrCreate(ctx, accountID, s.initialBalance)
	if err != nil {
		return nil, err
	}
	if len(w.Transactions) > recentTransactions {
		w.Transactions = w.Transactions[:recentTransactions]
	}
	return w, nil
}

func (s *WalletService) Balance(ctx context.Context, accountID int64) (int64, error) {
	w, err := s.wallets.GetOrCreate(ctx, accountID, s.initialBalance)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (s *WalletService) CheckBalance(ctx context.Context, accountID, amount int64) (*BalanceCheck, error) {
	if amount <= 0 {
		return nil, domain.ValidationError("amount must be positive")
	}

	w, err := s.wallets.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &BalanceCheck{
		Sufficient:     w.CanCover(amount),
		CurrentBalance: w.Balance,
		RequiredAmount: amount,
		Shortfall:      w.Shortfall(amount),
	}, nil
}

func (s *WalletService) AddFunds(ctx context.Context, accountID, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ValidationError("amount must be positive")
	}

	// Lazy creation keeps the invariant that every account touching the
	// wallet has one, with the starting credit on the books.
	if _, err := s.wallets.GetOrCreate(ctx, accountID, s.initialBalance); err != nil {
		return nil, err
	}
	return s.wallets.Credit(ctx, accountID, amount, "Wallet top-up")
}

var _ WalletUseCase = (*WalletService)(nil)
