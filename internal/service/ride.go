package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/fare"
	"wheelshare/internal/geo"
	"wheelshare/internal/repository"
)

// RideService owns ride records and enforces the ride lifecycle state
// machine: REQUESTED -> ACCEPTED -> STARTED -> COMPLETED, with
// REQUESTED -> CANCELLED as the only other path. Every transition is a
// conditional update in the repository layer, so concurrent callers can never
// observe a transition outside the machine and at most one accept succeeds
// per ride.
type RideService struct {
	rideRepo            repository.RideRepository
	driverRepo          repository.DriverRepository
	customerRepo        repository.CustomerRepository
	txStore             repository.TxStore
	fareCalc            *fare.Calculator
	notificationService *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	customerRepo repository.CustomerRepository,
	txStore repository.TxStore,
	fareCalc *fare.Calculator,
	notificationService *NotificationService,
) *RideService {
	return &RideService{
		rideRepo:            rideRepo,
		driverRepo:          driverRepo,
		customerRepo:        customerRepo,
		txStore:             txStore,
		fareCalc:            fareCalc,
		notificationService: notificationService,
	}
}

// RequestRideCommand contains the parameters for requesting a ride.
type RequestRideCommand struct {
	CustomerID         string
	SourceLat          float64
	SourceLng          float64
	SourceAddress      string
	DestinationLat     float64
	DestinationLng     float64
	DestinationAddress string

	// QuotedFare, when positive, is the fare the client was shown at
	// estimate time and takes precedence over re-pricing.
	QuotedFare decimal.Decimal
}

// Request prices the trip and creates a ride in REQUESTED state.
func (s *RideService) Request(ctx context.Context, cmd RequestRideCommand) (*domain.Ride, error) {
	if err := s.validateRequest(cmd); err != nil {
		return nil, err
	}

	// The customer must exist; registration is an external concern.
	if _, err := s.customerRepo.GetByID(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	distanceKm := geo.DistanceKm(cmd.SourceLat, cmd.SourceLng, cmd.DestinationLat, cmd.DestinationLng)

	rideFare := cmd.QuotedFare
	if !rideFare.IsPositive() {
		rideFare = s.fareCalc.EstimateFare(distanceKm).Round(2)
	}

	ride := &domain.Ride{
		ID:                 uuid.New().String(),
		CustomerID:         cmd.CustomerID,
		SourceLat:          cmd.SourceLat,
		SourceLng:          cmd.SourceLng,
		SourceAddress:      cmd.SourceAddress,
		DestinationLat:     cmd.DestinationLat,
		DestinationLng:     cmd.DestinationLng,
		DestinationAddress: cmd.DestinationAddress,
		DistanceKm:         geo.Round2(distanceKm),
		Fare:               rideFare,
		Status:             domain.RideStatusRequested,
		RequestedAt:        time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideRequested(ctx, ride)
	}

	return ride, nil
}

// Quote prices a trip without creating a ride.
func (s *RideService) Quote(ctx context.Context, sourceLat, sourceLng, destLat, destLng float64) (*domain.FareQuote, error) {
	if !geo.ValidLatitude(sourceLat) || !geo.ValidLongitude(sourceLng) {
		return nil, ErrInvalidSourceLocation
	}
	if !geo.ValidLatitude(destLat) || !geo.ValidLongitude(destLng) {
		return nil, ErrInvalidDestinationLocation
	}

	distanceKm := geo.DistanceKm(sourceLat, sourceLng, destLat, destLng)

	return &domain.FareQuote{
		DistanceKm:    geo.Round2(distanceKm),
		EstimatedFare: s.fareCalc.EstimateFare(distanceKm).Round(2),
	}, nil
}

// Accept claims a REQUESTED ride for a driver. The underlying claim is a
// conditional update on the ride row plus a conditional flip of the driver's
// availability, committed atomically: of N concurrent accepts on the same
// ride exactly one succeeds, and a driver can hold at most one active ride.
func (s *RideService) Accept(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsAvailable {
		return nil, ErrDriverUnavailable
	}

	if err := s.txStore.ClaimRide(ctx, rideID, driverID, time.Now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrRideTaken):
			return nil, ErrRideTaken
		case errors.Is(err, repository.ErrDriverBusy):
			return nil, ErrDriverUnavailable
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideAccepted(ctx, ride)
	}

	return ride, nil
}

// Start moves an ACCEPTED ride to STARTED. Only the assigned driver may
// start it.
func (s *RideService) Start(ctx context.Context, rideID, driverID string) error {
	ride, err := s.getForDriver(ctx, rideID, driverID)
	if err != nil {
		return err
	}

	if err := s.rideRepo.Start(ctx, ride.ID, driverID); err != nil {
		if errors.Is(err, repository.ErrRideTaken) {
			return ErrRideNotAccepted
		}
		return err
	}

	return nil
}

// Complete moves a STARTED ride to COMPLETED. The final fare is the quoted
// fare; there is no re-pricing on completion. The driver becomes available
// again and the earning is credited to the driver wallet, atomically with
// the status transition.
func (s *RideService) Complete(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	ride, err := s.getForDriver(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}

	finalFare := ride.Fare
	earning := &domain.WalletEntry{
		ID:          uuid.New().String(),
		DriverID:    driverID,
		RideID:      ride.ID,
		Amount:      s.fareCalc.DriverEarning(finalFare).Round(2),
		Type:        domain.WalletTransactionCredit,
		Description: fmt.Sprintf("Earning for ride %s", ride.ID),
		CreatedAt:   time.Now(),
	}

	if err := s.txStore.CompleteRide(ctx, ride.ID, driverID, finalFare, earning, time.Now()); err != nil {
		if errors.Is(err, repository.ErrRideTaken) {
			return nil, ErrRideNotStarted
		}
		return nil, err
	}

	completed, err := s.rideRepo.GetByID(ctx, ride.ID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCompleted(ctx, completed, earning.Amount)
	}

	return completed, nil
}

// Cancel moves a REQUESTED ride to CANCELLED. Only the requesting customer
// may cancel, and only while no driver has claimed the ride.
func (s *RideService) Cancel(ctx context.Context, rideID, customerID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}
	if customerID == "" {
		return ErrInvalidCustomerID
	}

	// Scoped lookup: a ride belonging to someone else is indistinguishable
	// from a missing ride.
	ride, err := s.rideRepo.GetByIDForCustomer(ctx, rideID, customerID)
	if err != nil {
		return err
	}

	if err := s.rideRepo.Cancel(ctx, ride.ID); err != nil {
		if errors.Is(err, repository.ErrRideTaken) {
			return ErrRideNotCancellable
		}
		return err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCancelled(ctx, ride)
	}

	return nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// HistoryForCustomer retrieves a customer's rides, newest first.
func (s *RideService) HistoryForCustomer(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.rideRepo.GetByCustomer(ctx, customerID)
}

// ActiveForDriver retrieves the driver's ACCEPTED and STARTED rides.
func (s *RideService) ActiveForDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.rideRepo.GetActiveByDriver(ctx, driverID)
}

// getForDriver loads a ride and verifies the caller is its assigned driver.
func (s *RideService) getForDriver(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != driverID {
		return nil, ErrNotRideDriver
	}

	return ride, nil
}

func (s *RideService) validateRequest(cmd RequestRideCommand) error {
	if cmd.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if !geo.ValidLatitude(cmd.SourceLat) || !geo.ValidLongitude(cmd.SourceLng) {
		return ErrInvalidSourceLocation
	}
	if !geo.ValidLatitude(cmd.DestinationLat) || !geo.ValidLongitude(cmd.DestinationLng) {
		return ErrInvalidDestinationLocation
	}
	return nil
}
