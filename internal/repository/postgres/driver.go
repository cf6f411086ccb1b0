package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), is_available, is_verified, current_lat, current_lng
		FROM drivers WHERE id = $1
	`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone, ''), is_available, is_verified, current_lat, current_lng
		FROM drivers ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows.Scan)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// SetAvailability sets the availability flag unconditionally.
func (r *DriverRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	query := `UPDATE drivers SET is_available = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, available, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkBusy flips an available driver to unavailable in one conditional
// update. Zero rows means the driver was already busy or offline.
func (r *DriverRepository) MarkBusy(ctx context.Context, id string) error {
	query := `UPDATE drivers SET is_available = FALSE WHERE id = $1 AND is_available = TRUE`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrDriverBusy
	}

	return nil
}

// UpdateLocation overwrites the driver's current coordinates.
func (r *DriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE drivers SET current_lat = $1, current_lng = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, lat, lng, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanDriver(scan func(dest ...any) error) (*domain.Driver, error) {
	var driver domain.Driver
	var lat, lng sql.NullFloat64

	err := scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.IsAvailable,
		&driver.IsVerified,
		&lat,
		&lng,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		driver.Lat = lat.Float64
		driver.Lng = lng.Float64
		driver.HasLocation = true
	}

	return &driver, nil
}
