package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
)

// PaymentService records payments for completed rides. Recording is a
// terminal side effect keyed by ride id: a ride is paid at most once, and the
// operation is gated on the ride being COMPLETED.
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	rideRepo            repository.RideRepository
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rideRepo repository.RideRepository,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		rideRepo:            rideRepo,
		notificationService: notificationService,
	}
}

// RecordPaymentCommand contains the parameters for recording a payment.
type RecordPaymentCommand struct {
	RideID     string
	CustomerID string
	Method     domain.PaymentMethod
}

// RecordPayment records the payment for a completed ride. Cash settles
// immediately; UPI is recorded as pending with a generated transaction
// reference.
func (s *PaymentService) RecordPayment(ctx context.Context, cmd RecordPaymentCommand) (*domain.Payment, error) {
	if cmd.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if cmd.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	method, err := ValidatePaymentMethod(string(cmd.Method))
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByIDForCustomer(ctx, cmd.RideID, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	existing, err := s.paymentRepo.GetByRideID(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPaymentExists
	}

	amount := ride.Fare
	if ride.FinalFare.Valid {
		amount = ride.FinalFare.Decimal
	}

	payment := &domain.Payment{
		ID:        uuid.New().String(),
		RideID:    cmd.RideID,
		Amount:    amount.Round(2),
		Method:    method,
		Status:    domain.PaymentStatusPending,
		CreatedAt: time.Now(),
	}

	switch method {
	case domain.PaymentMethodCash:
		payment.Status = domain.PaymentStatusCompleted
	case domain.PaymentMethodUPI:
		payment.TransactionRef = uuid.New().String()
	}

	// The existing-payment check above is only the friendly path; the
	// uniqueness of ride_id is enforced by the insert, so the loser of a
	// concurrent record sees a conflict, not a second row.
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPaymentExists
		}
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentRecorded(ctx, payment, ride.CustomerID)
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, repository.ErrNotFound
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ValidatePaymentMethod validates a payment method string, defaulting to
// cash when empty.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCash, domain.PaymentMethodUPI, domain.PaymentMethodCard:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCash, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
