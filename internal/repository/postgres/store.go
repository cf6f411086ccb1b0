package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

// Store is the PostgreSQL implementation of repository.TxStore. It composes
// transaction-scoped repositories over a single *sql.Tx so that multi-record
// transitions commit or roll back as one unit.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ClaimRide atomically claims a ride for a driver and marks the driver busy.
func (s *Store) ClaimRide(ctx context.Context, rideID, driverID string, at time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRideRepo := NewRideRepositoryWithTx(tx)
	txDriverRepo := NewDriverRepositoryWithTx(tx)

	if err = txRideRepo.Claim(ctx, rideID, driverID, at); err != nil {
		return err
	}

	if err = txDriverRepo.MarkBusy(ctx, driverID); err != nil {
		return err
	}

	return tx.Commit()
}

// CompleteRide atomically completes a ride, restores the driver's
// availability and credits the driver's earning.
func (s *Store) CompleteRide(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, earning *domain.WalletEntry, at time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRideRepo := NewRideRepositoryWithTx(tx)
	txDriverRepo := NewDriverRepositoryWithTx(tx)
	txWalletRepo := NewWalletRepositoryWithTx(tx)

	if err = txRideRepo.Complete(ctx, rideID, driverID, finalFare, at); err != nil {
		return err
	}

	if err = txDriverRepo.SetAvailability(ctx, driverID, true); err != nil {
		return err
	}

	if err = txWalletRepo.Create(ctx, earning); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure Store implements the interface.
var _ repository.TxStore = (*Store)(nil)
