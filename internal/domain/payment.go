package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentMethod represents how a customer settles a ride.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCard PaymentMethod = "CARD"
)

// Payment represents the payment recorded for a completed ride.
// At most one payment exists per ride.
type Payment struct {
	ID             string
	RideID         string
	Amount         decimal.Decimal
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionRef string
	CreatedAt      time.Time
}
