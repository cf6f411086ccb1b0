package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

const rideColumns = `id, customer_id, driver_id, source_lat, source_lng, source_address,
		destination_lat, destination_lng, destination_address, distance_km, fare,
		final_fare, status, requested_at, accepted_at, completed_at`

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, customer_id, driver_id, source_lat, source_lng, source_address,
			destination_lat, destination_lng, destination_address, distance_km, fare,
			final_fare, status, requested_at, accepted_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.CustomerID,
		nullString(ride.DriverID),
		ride.SourceLat,
		ride.SourceLng,
		ride.SourceAddress,
		ride.DestinationLat,
		ride.DestinationLng,
		ride.DestinationAddress,
		ride.DistanceKm,
		ride.Fare,
		ride.FinalFare,
		ride.Status,
		ride.RequestedAt,
		nullTime(ride.AcceptedAt),
		nullTime(ride.CompletedAt),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForCustomer retrieves a ride only if it belongs to the customer.
func (r *RideRepository) GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 AND customer_id = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id, customerID))
}

// GetPending retrieves all REQUESTED rides with no assigned driver.
func (r *RideRepository) GetPending(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides WHERE status = 'REQUESTED' AND driver_id IS NULL
		ORDER BY requested_at`
	return r.queryMany(ctx, query)
}

// GetByCustomer retrieves a customer's rides, newest first.
func (r *RideRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides WHERE customer_id = $1
		ORDER BY requested_at DESC`
	return r.queryMany(ctx, query, customerID)
}

// GetActiveByDriver retrieves the driver's ACCEPTED and STARTED rides.
func (r *RideRepository) GetActiveByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides WHERE driver_id = $1 AND status IN ('ACCEPTED', 'STARTED')
		ORDER BY requested_at DESC`
	return r.queryMany(ctx, query, driverID)
}

// Claim atomically assigns a driver to a REQUESTED, unassigned ride. The
// status check and the write are one conditional UPDATE, so at most one of
// any number of concurrent claims can match the row.
func (r *RideRepository) Claim(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET driver_id = $1, status = 'ACCEPTED', accepted_at = $2
		WHERE id = $3 AND status = 'REQUESTED' AND driver_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, driverID, at, rideID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return r.missOrTaken(ctx, rideID)
	}

	return nil
}

// Start moves an ACCEPTED ride assigned to driverID to STARTED.
func (r *RideRepository) Start(ctx context.Context, rideID, driverID string) error {
	query := `
		UPDATE rides
		SET status = 'STARTED'
		WHERE id = $1 AND driver_id = $2 AND status = 'ACCEPTED'
	`

	result, err := r.q.ExecContext(ctx, query, rideID, driverID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return r.missOrTaken(ctx, rideID)
	}

	return nil
}

// Complete moves a STARTED ride assigned to driverID to COMPLETED.
func (r *RideRepository) Complete(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, at time.Time) error {
	query := `
		UPDATE rides
		SET status = 'COMPLETED', final_fare = $1, completed_at = $2
		WHERE id = $3 AND driver_id = $4 AND status = 'STARTED'
	`

	result, err := r.q.ExecContext(ctx, query, finalFare, at, rideID, driverID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return r.missOrTaken(ctx, rideID)
	}

	return nil
}

// Cancel moves a REQUESTED ride to CANCELLED.
func (r *RideRepository) Cancel(ctx context.Context, rideID string) error {
	query := `
		UPDATE rides
		SET status = 'CANCELLED'
		WHERE id = $1 AND status = 'REQUESTED'
	`

	result, err := r.q.ExecContext(ctx, query, rideID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return r.missOrTaken(ctx, rideID)
	}

	return nil
}

// missOrTaken distinguishes a zero-row conditional update: the ride either
// does not exist or is no longer in the status the update required.
func (r *RideRepository) missOrTaken(ctx context.Context, rideID string) error {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, rideID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrRideTaken
}

func (r *RideRepository) scanOne(row *sql.Row) (*domain.Ride, error) {
	ride, err := scanRide(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

func (r *RideRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows.Scan)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// scanRide scans one rides row via the given Scan function.
func scanRide(scan func(dest ...any) error) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString
	var acceptedAt, completedAt sql.NullTime

	err := scan(
		&ride.ID,
		&ride.CustomerID,
		&driverID,
		&ride.SourceLat,
		&ride.SourceLng,
		&ride.SourceAddress,
		&ride.DestinationLat,
		&ride.DestinationLng,
		&ride.DestinationAddress,
		&ride.DistanceKm,
		&ride.Fare,
		&ride.FinalFare,
		&ride.Status,
		&ride.RequestedAt,
		&acceptedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if acceptedAt.Valid {
		ride.AcceptedAt = acceptedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
