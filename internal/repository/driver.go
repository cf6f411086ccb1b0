package repository

import (
	"context"

	"wheelshare/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
// Driver rows are provisioned by the account service; this repository only
// reads them and mutates availability and location.
type DriverRepository interface {
	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// SetAvailability sets the availability flag unconditionally.
	SetAvailability(ctx context.Context, id string, available bool) error

	// MarkBusy flips an available driver to unavailable. Returns
	// ErrDriverBusy if the driver was not available, so a driver can hold at
	// most one active ride even under concurrent accepts.
	MarkBusy(ctx context.Context, id string) error

	// UpdateLocation overwrites the driver's current coordinates.
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error
}
