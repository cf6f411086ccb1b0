package service

import (
	"context"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

// WalletService exposes a driver's earnings ledger. Entries are written by
// the ride lifecycle on completion; this service only reads.
type WalletService struct {
	walletRepo repository.WalletRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// WalletStatement is a driver's wallet history with its running balance.
type WalletStatement struct {
	Entries []*domain.WalletEntry
	Balance decimal.Decimal
}

// Statement retrieves a driver's wallet entries, newest first, with the
// driver's balance (credits minus debits).
func (s *WalletService) Statement(ctx context.Context, driverID string) (*WalletStatement, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	entries, err := s.walletRepo.GetByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	balance, err := s.walletRepo.Balance(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return &WalletStatement{Entries: entries, Balance: balance}, nil
}
