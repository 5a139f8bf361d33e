// Package trips reads and writes the trips table and serves paged,
// filterable trip listings.
package trips

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"yellow-taxi-trips/filter"
	"yellow-taxi-trips/geometry"
	"yellow-taxi-trips/models"
)

// DB executes parameterized statements. *sql.DB satisfies it.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store holds the SQL for the trips table. Geometry columns are written and
// read through codec.
type Store struct {
	db    DB
	codec geometry.Codec

	insertSQL  string
	selectBase string
}

func NewStore(db DB, codec geometry.Codec) *Store {
	return &Store{
		db:         db,
		codec:      codec,
		insertSQL:  insertQuery(codec),
		selectBase: selectQuery(codec),
	}
}

func insertQuery(c geometry.Codec) string {
	return `INSERT INTO trips (
            vendor_id, pickup_datetime, dropoff_datetime, passenger_count,
            trip_distance, pickup_location, dropoff_location, payment_type,
            fare_amount, mta_tax, tip_amount, tolls_amount, total_amount,
            imp_surcharge, rate_code
        ) VALUES ($1, $2, $3, $4, $5, ` + c.InsertExpr("$6") + `, ` + c.InsertExpr("$7") + `,
            $8, $9, $10, $11, $12, $13, $14, $15)`
}

func selectQuery(c geometry.Codec) string {
	return `SELECT id, vendor_id, pickup_datetime, dropoff_datetime, passenger_count,
            trip_distance, ` + c.SelectExpr("pickup_location") + ` AS pickup_location,
            ` + c.SelectExpr("dropoff_location") + ` AS dropoff_location, payment_type,
            fare_amount, mta_tax, tip_amount, tolls_amount, total_amount,
            imp_surcharge, rate_code
        FROM trips`
}

// InsertTrip writes one row. It runs outside any transaction.
func (s *Store) InsertTrip(ctx context.Context, t models.NewTrip) error {
	pickup, err := s.codec.Encode(t.PickupLocation)
	if err != nil {
		return fmt.Errorf("encode pickup location: %w", err)
	}
	dropoff, err := s.codec.Encode(t.DropoffLocation)
	if err != nil {
		return fmt.Errorf("encode dropoff location: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.insertSQL,
		t.VendorID,
		t.PickupDatetime,
		t.DropoffDatetime,
		t.PassengerCount,
		t.TripDistance,
		pickup,
		dropoff,
		t.PaymentType,
		t.FareAmount,
		t.MTATax,
		t.TipAmount,
		t.TollsAmount,
		t.TotalAmount,
		t.ImpSurcharge,
		t.RateCode,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// ListTrips returns one window of the table ordered by id.
func (s *Store) ListTrips(ctx context.Context, limit, offset int) ([]models.Trip, error) {
	return s.query(ctx, s.selectBase+"\n        ORDER BY id\n        LIMIT $1 OFFSET $2", limit, offset)
}

// CountTrips counts every row in the table.
func (s *Store) CountTrips(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM trips`)
}

// ListFiltered returns one window of the rows matching pred, ordered by id.
// LIMIT and OFFSET take the placeholders following pred's.
func (s *Store) ListFiltered(ctx context.Context, pred filter.Predicate, limit, offset int) ([]models.Trip, error) {
	n := pred.NextPlaceholder()
	q := s.filteredQuery(pred) + "\n        ORDER BY id\n        LIMIT $" + strconv.Itoa(n) + " OFFSET $" + strconv.Itoa(n+1)

	args := make([]interface{}, 0, len(pred.Args)+2)
	args = append(args, pred.Args...)
	args = append(args, limit, offset)
	return s.query(ctx, q, args...)
}

// CountFiltered counts the rows matching pred by wrapping the filtered
// selection in a subquery.
func (s *Store) CountFiltered(ctx context.Context, pred filter.Predicate) (int64, error) {
	q := "SELECT COUNT(*) FROM (" + s.filteredQuery(pred) + ") AS filtered_trips"
	return s.count(ctx, q, pred.Args...)
}

func (s *Store) filteredQuery(pred filter.Predicate) string {
	where := pred.SQL()
	if where == "" {
		return s.selectBase
	}
	return s.selectBase + "\n        " + where
}

func (s *Store) count(ctx context.Context, q string, args ...interface{}) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trips: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...interface{}) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var out []models.Trip
	for rows.Next() {
		t, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	return out, nil
}

func (s *Store) scan(rows *sql.Rows) (models.Trip, error) {
	var (
		t               models.Trip
		pickup, dropoff string
	)
	err := rows.Scan(
		&t.ID,
		&t.VendorID,
		&t.PickupDatetime,
		&t.DropoffDatetime,
		&t.PassengerCount,
		&t.TripDistance,
		&pickup,
		&dropoff,
		&t.PaymentType,
		&t.FareAmount,
		&t.MTATax,
		&t.TipAmount,
		&t.TollsAmount,
		&t.TotalAmount,
		&t.ImpSurcharge,
		&t.RateCode,
	)
	if err != nil {
		return models.Trip{}, fmt.Errorf("scan trip: %w", err)
	}

	if t.PickupLocation, err = s.codec.Decode(pickup); err != nil {
		return models.Trip{}, fmt.Errorf("trip id=%d: pickup_location: %w", t.ID, err)
	}
	if t.DropoffLocation, err = s.codec.Decode(dropoff); err != nil {
		return models.Trip{}, fmt.Errorf("trip id=%d: dropoff_location: %w", t.ID, err)
	}
	return t, nil
}
