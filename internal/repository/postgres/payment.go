package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

const uniqueViolation = "23505"

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment. The unique index on payments.ride_id backs
// the one-payment-per-ride rule; a lost duplicate race surfaces as
// ErrDuplicate instead of a second row.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, ride_id, amount, method, status, transaction_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.RideID,
		payment.Amount,
		payment.Method,
		payment.Status,
		nullString(payment.TransactionRef),
		payment.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, ride_id, amount, method, status, transaction_ref, created_at
		FROM payments WHERE id = $1
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByRideID retrieves the payment for a ride, nil if none exists.
func (r *PaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	query := `
		SELECT id, ride_id, amount, method, status, transaction_ref, created_at
		FROM payments WHERE ride_id = $1
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, rideID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

func scanPayment(scan func(dest ...any) error) (*domain.Payment, error) {
	var payment domain.Payment
	var txnRef sql.NullString

	err := scan(
		&payment.ID,
		&payment.RideID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&txnRef,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if txnRef.Valid {
		payment.TransactionRef = txnRef.String
	}

	return &payment, nil
}
