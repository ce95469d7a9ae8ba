package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreateConfirmed commits the booking, the wallet debit and the seat
	// decrement as one transaction and returns the wallet balance after the
	// debit. No reader ever observes the booking without its debit.
	CreateConfirmed(ctx context.Context, booking *domain.Booking, debitDescription string) (int64, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error)
	GetByID(ctx context.Context, id, accountID int64) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string, accountID int64) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, pnr, account_id, flight_id, passenger_name, passenger_email, passenger_phone,
	flight_code, airline, departure_city, arrival_city, departure_time, arrival_time, duration,
	base_price, surge_applied, surge_percentage, final_price, status, booking_date, created_at, updated_at`

func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking, debitDescription string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// The wallet row lock is the serialization point: two concurrent
	// bookings for the same account are debited one after the other, so the
	// second sees the balance left by the first.
	var walletID, balance int64
	err = tx.QueryRow(ctx, `SELECT id, balance FROM wallets WHERE account_id=$1 FOR UPDATE`, booking.AccountID).
		Scan(&walletID, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrWalletNotFound
		}
		return 0, err
	}

	if balance < booking.FinalPrice {
		return 0, &domain.InsufficientFundsError{Required: booking.FinalPrice, Balance: balance}
	}

	booking.Status = domain.BookingStatusConfirmed
	err = tx.QueryRow(ctx, `INSERT INTO bookings
		(pnr, account_id, flight_id, passenger_name, passenger_email, passenger_phone,
		 flight_code, airline, departure_city, arrival_city, departure_time, arrival_time, duration,
		 base_price, surge_applied, surge_percentage, final_price, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id, booking_date, created_at, updated_at`,
		booking.PNR, booking.AccountID, booking.FlightID,
		booking.PassengerName, booking.PassengerEmail, booking.PassengerPhone,
		booking.FlightDetails.FlightCode, booking.FlightDetails.Airline,
		booking.FlightDetails.DepartureCity, booking.FlightDetails.ArrivalCity,
		booking.FlightDetails.DepartureTime, booking.FlightDetails.ArrivalTime, booking.FlightDetails.Duration,
		booking.BasePrice, booking.SurgeApplied, booking.SurgePercentage, booking.FinalPrice, booking.Status).
		Scan(&booking.ID, &booking.BookingDate, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, domain.ErrPNRTaken
		}
		return 0, err
	}

	newBalance := balance - booking.FinalPrice
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance=$1, updated_at=now() WHERE id=$2`, newBalance, walletID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (wallet_id, type, amount, description, booking_id)
		VALUES ($1,$2,$3,$4,$5)`, walletID, domain.TransactionDebit, booking.FinalPrice, debitDescription, booking.ID); err != nil {
		return 0, err
	}

	// Best effort, no floor guard: overbooking protection is out of scope.
	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1, updated_at = now() WHERE id=$1`, booking.FlightID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *PGBookingRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE account_id=$1 ORDER BY booking_date DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id, accountID int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 AND account_id=$2`, id, accountID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string, accountID int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1 AND account_id=$2`, pnr, accountID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PNR, &b.AccountID, &b.FlightID,
		&b.PassengerName, &b.PassengerEmail, &b.PassengerPhone,
		&b.FlightDetails.FlightCode, &b.FlightDetails.Airline,
		&b.FlightDetails.DepartureCity, &b.FlightDetails.ArrivalCity,
		&b.FlightDetails.DepartureTime, &b.FlightDetails.ArrivalTime, &b.FlightDetails.Duration,
		&b.BasePrice, &b.SurgeApplied, &b.SurgePercentage, &b.FinalPrice,
		&b.Status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
