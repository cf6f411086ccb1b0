package repository

import (
	"context"

	"wheelshare/internal/domain"
)

// CustomerRepository defines the read operations for customer accounts.
// Accounts are owned by an external registration service.
type CustomerRepository interface {
	// GetByID retrieves a customer by ID.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}
