package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultListLimit caps the flight listing when the caller does not ask
// for a specific page size.
const DefaultListLimit = 10

// FlightFilter narrows and orders the flight listing. Zero value lists
// everything with the default ordering.
type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
	SortBy        string
	SortOrder     string
	Limit         int
}

// IsDefault reports whether the filter produces the default listing. The
// defaulted sort order and page size do not count as narrowing, so the
// handler's plain listing stays cacheable.
func (f FlightFilter) IsDefault() bool {
	return f.DepartureCity == "" && f.ArrivalCity == "" && f.SortBy == "" &&
		(f.SortOrder == "" || f.SortOrder == "asc") &&
		(f.Limit == 0 || f.Limit == DefaultListLimit)
}

type FlightRepository interface {
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Cities(ctx context.Context) ([]string, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, code, airline, departure_city, arrival_city, departure_time, arrival_time, duration, base_price, available_seats, aircraft, created_at, updated_at`

var flightSortColumns = map[string]string{
	"price":          "base_price",
	"airline":        "airline",
	"departure_time": "departure_time",
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	args := make([]interface{}, 0, 3)

	where := ""
	if filter.DepartureCity != "" {
		args = append(args, filter.DepartureCity)
		where = fmt.Sprintf(" WHERE departure_city ILIKE '%%'||$%d||'%%'", len(args))
	}
	if filter.ArrivalCity != "" {
		args = append(args, filter.ArrivalCity)
		clause := fmt.Sprintf("arrival_city ILIKE '%%'||$%d||'%%'", len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	query += where

	order := " ORDER BY created_at DESC"
	if col, ok := flightSortColumns[filter.SortBy]; ok {
		dir := "ASC"
		if filter.SortOrder == "desc" {
			dir = "DESC"
		}
		order = fmt.Sprintf(" ORDER BY %s %s", col, dir)
	}
	query += order

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFlightNotFound
	}
	return f, err
}

func (r *PGFlightRepository) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT city FROM (
		SELECT departure_city AS city FROM flights
		UNION
		SELECT arrival_city FROM flights
	) c ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Code, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime, &f.Duration, &f.BasePrice, &f.AvailableSeats, &f.Aircraft, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
