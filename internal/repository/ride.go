package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// The conditional mutations (Claim, Start, Complete, Cancel) are each a single
// compare-and-set: the status check and the write happen in one statement, so
// concurrent callers can never interleave a read-then-write on the same ride.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDForCustomer retrieves a ride only if it belongs to the customer.
	// Returns ErrNotFound otherwise; callers cannot learn about rides that
	// are not theirs.
	GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Ride, error)

	// GetPending retrieves all REQUESTED rides with no assigned driver.
	GetPending(ctx context.Context) ([]*domain.Ride, error)

	// GetByCustomer retrieves a customer's rides, newest first.
	GetByCustomer(ctx context.Context, customerID string) ([]*domain.Ride, error)

	// GetActiveByDriver retrieves the driver's ACCEPTED and STARTED rides.
	GetActiveByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// Claim atomically assigns a driver to a REQUESTED, unassigned ride and
	// moves it to ACCEPTED. Returns ErrRideTaken if the ride exists but is no
	// longer claimable, ErrNotFound if it does not exist.
	Claim(ctx context.Context, rideID, driverID string, at time.Time) error

	// Start moves an ACCEPTED ride assigned to driverID to STARTED.
	// Returns ErrRideTaken when the status condition did not hold.
	Start(ctx context.Context, rideID, driverID string) error

	// Complete moves a STARTED ride assigned to driverID to COMPLETED,
	// recording the final fare and completion time.
	Complete(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, at time.Time) error

	// Cancel moves a REQUESTED ride to CANCELLED.
	Cancel(ctx context.Context, rideID string) error
}
