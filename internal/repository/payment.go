package repository

import (
	"context"

	"wheelshare/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByRideID retrieves the payment for a ride.
	// Returns nil if the ride has not been paid.
	GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error)
}
