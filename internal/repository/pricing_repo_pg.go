package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PricingRepository interface {
	// Get returns the attempt log for the pair without creating one.
	Get(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error)
	// RecordAttempt creates the log if absent and appends an attempt,
	// serializing concurrent callers for the same pair.
	RecordAttempt(ctx context.Context, accountID, flightID int64, now time.Time, policy domain.SurgePolicy) (*domain.AttemptLog, error)
	// Save persists the surge fields, used for the lazy reset on the read path.
	Save(ctx context.Context, log *domain.AttemptLog) error
	// DeleteStaleBefore removes non-surging logs whose last attempt is older
	// than the cutoff. Returns the number of deleted rows.
	DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGPricingRepository struct {
	db *pgxpool.Pool
}

func NewPricingRepository(db *pgxpool.Pool) PricingRepository {
	return &PGPricingRepository{db: db}
}

const attemptLogColumns = `id, account_id, flight_id, attempts, surge_active, surge_started_at, last_attempt, created_at, updated_at`

func (r *PGPricingRepository) Get(ctx context.Context, accountID, flightID int64) (*domain.AttemptLog, error) {
	row := r.db.QueryRow(ctx, `SELECT `+attemptLogColumns+` FROM pricing_logs WHERE account_id=$1 AND flight_id=$2`, accountID, flightID)
	log, err := scanAttemptLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAttemptLogNotFound
	}
	return log, err
}

func (r *PGPricingRepository) RecordAttempt(ctx context.Context, accountID, flightID int64, now time.Time, policy domain.SurgePolicy) (*domain.AttemptLog, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Create the row once per pair; the unique index makes this idempotent.
	if _, err := tx.Exec(ctx, `INSERT INTO pricing_logs (account_id, flight_id, attempts, last_attempt)
		VALUES ($1, $2, '{}', $3)
		ON CONFLICT (account_id, flight_id) DO NOTHING`, accountID, flightID, now); err != nil {
		return nil, err
	}

	// The row lock serializes concurrent attempts for the same pair, so two
	// simultaneous callers cannot both observe the pre-activation count.
	row := tx.QueryRow(ctx, `SELECT `+attemptLogColumns+` FROM pricing_logs WHERE account_id=$1 AND flight_id=$2 FOR UPDATE`, accountID, flightID)
	log, err := scanAttemptLog(row)
	if err != nil {
		return nil, err
	}

	log.CheckSurgeReset(now, policy)
	log.RecordAttempt(now, policy)

	if _, err := tx.Exec(ctx, `UPDATE pricing_logs
		SET attempts=$1, surge_active=$2, surge_started_at=$3, last_attempt=$4, updated_at=now()
		WHERE id=$5`, log.Attempts, log.SurgeActive, log.SurgeStartedAt, log.LastAttempt, log.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return log, nil
}

func (r *PGPricingRepository) Save(ctx context.Context, log *domain.AttemptLog) error {
	_, err := r.db.Exec(ctx, `UPDATE pricing_logs
		SET attempts=$1, surge_active=$2, surge_started_at=$3, last_attempt=$4, updated_at=now()
		WHERE id=$5`, log.Attempts, log.SurgeActive, log.SurgeStartedAt, log.LastAttempt, log.ID)
	return err
}

func (r *PGPricingRepository) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM pricing_logs WHERE surge_active=false AND last_attempt < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func scanAttemptLog(row pgx.Row) (*domain.AttemptLog, error) {
	var l domain.AttemptLog
	if err := row.Scan(&l.ID, &l.AccountID, &l.FlightID, &l.Attempts, &l.SurgeActive, &l.SurgeStartedAt, &l.LastAttempt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

var _ PricingRepository = (*PGPricingRepository)(nil)
