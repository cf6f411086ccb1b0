package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet entry.
func (r *WalletRepository) Create(ctx context.Context, entry *domain.WalletEntry) error {
	query := `
		INSERT INTO driver_wallets (id, driver_id, ride_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.DriverID,
		entry.RideID,
		entry.Amount,
		entry.Type,
		entry.Description,
		entry.CreatedAt,
	)

	return err
}

// GetByDriver retrieves a driver's wallet entries, newest first.
func (r *WalletRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.WalletEntry, error) {
	query := `
		SELECT id, driver_id, ride_id, amount, type, description, created_at
		FROM driver_wallets WHERE driver_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WalletEntry
	for rows.Next() {
		var entry domain.WalletEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.DriverID,
			&entry.RideID,
			&entry.Amount,
			&entry.Type,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Balance returns credits minus debits for the driver.
func (r *WalletRepository) Balance(ctx context.Context, driverID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM driver_wallets WHERE driver_id = $1
	`

	var balance decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, driverID).Scan(&balance); err != nil {
		return decimal.Decimal{}, err
	}

	return balance, nil
}
