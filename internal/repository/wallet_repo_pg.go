package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository interface {
	// Get returns the wallet with its transaction history, newest first.
	Get(ctx context.Context, accountID int64) (*domain.Wallet, error)
	// GetOrCreate lazily creates the wallet with a starting credit. Safe to
	// call concurrently for the same account; only one wallet is ever created.
	GetOrCreate(ctx context.Context, accountID, initialBalance int64) (*domain.Wallet, error)
	// Credit adds funds and appends a credit transaction.
	Credit(ctx context.Context, accountID, amount int64, description string) (*domain.Wallet, error)
}

type PGWalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &PGWalletRepository{db: db}
}

func (r *PGWalletRepository) Get(ctx context.Context, accountID int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, account_id, balance, created_at, updated_at FROM wallets WHERE account_id=$1`, accountID)
	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.AccountID, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, wallet_id, type, amount, description, booking_id, created_at
		FROM wallet_transactions WHERE wallet_id=$1 ORDER BY created_at DESC, id DESC`, w.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Description, &t.BookingID, &t.CreatedAt); err != nil {
			return nil, err
		}
		w.Transactions = append(w.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGWalletRepository) GetOrCreate(ctx context.Context, accountID, initialBalance int64) (*domain.Wallet, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var walletID int64
	err = tx.QueryRow(ctx, `INSERT INTO wallets (account_id, balance) VALUES ($1, $2)
		ON CONFLICT (account_id) DO NOTHING
		RETURNING id`, accountID, initialBalance).Scan(&walletID)
	switch {
	case err == nil:
		// Freshly created wallet gets its starting credit on the books.
		if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (wallet_id, type, amount, description)
			VALUES ($1, $2, $3, 'Initial wallet balance')`, walletID, domain.TransactionCredit, initialBalance); err != nil {
			return nil, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Wallet already exists, nothing to do.
	default:
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, accountID)
}

func (r *PGWalletRepository) Credit(ctx context.Context, accountID, amount int64, description string) (*domain.Wallet, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var walletID int64
	err = tx.QueryRow(ctx, `UPDATE wallets SET balance = balance + $1, updated_at = now()
		WHERE account_id=$2 RETURNING id`, amount, accountID).Scan(&walletID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (wallet_id, type, amount, description)
		VALUES ($1, $2, $3, $4)`, walletID, domain.TransactionCredit, amount, description); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, accountID)
}

var _ WalletRepository = (*PGWalletRepository)(nil)
