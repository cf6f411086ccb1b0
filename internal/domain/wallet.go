package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionType distinguishes credits from debits in a driver wallet.
type WalletTransactionType string

const (
	WalletTransactionCredit WalletTransactionType = "CREDIT"
	WalletTransactionDebit  WalletTransactionType = "DEBIT"
)

// WalletEntry is one ledger line in a driver's earnings wallet. A CREDIT for
// the driver earning is written when a ride completes.
type WalletEntry struct {
	ID          string
	DriverID    string
	RideID      string
	Amount      decimal.Decimal
	Type        WalletTransactionType
	Description string
	CreatedAt   time.Time
}
