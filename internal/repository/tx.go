package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
)

// TxStore performs the multi-record lifecycle transitions that must commit
// atomically. Implementations guarantee all-or-nothing semantics across the
// ride, driver and wallet records involved.
type TxStore interface {
	// ClaimRide assigns driverID to the ride and flips the driver busy, both
	// as conditional updates in one transaction. Returns ErrRideTaken when
	// the ride already left REQUESTED, ErrDriverBusy when the driver was not
	// available, ErrNotFound when either record is absent.
	ClaimRide(ctx context.Context, rideID, driverID string, at time.Time) error

	// CompleteRide moves a STARTED ride assigned to driverID to COMPLETED
	// with the given final fare, restores the driver's availability, and
	// credits the earning wallet entry, in one transaction.
	CompleteRide(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, earning *domain.WalletEntry, at time.Time) error
}
