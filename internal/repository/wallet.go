package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
)

// WalletRepository defines the persistence operations for driver wallets.
type WalletRepository interface {
	// Create persists a new wallet entry.
	Create(ctx context.Context, entry *domain.WalletEntry) error

	// GetByDriver retrieves a driver's wallet entries, newest first.
	GetByDriver(ctx context.Context, driverID string) ([]*domain.WalletEntry, error)

	// Balance returns the driver's running balance: credits minus debits.
	Balance(ctx context.Context, driverID string) (decimal.Decimal, error)
}
