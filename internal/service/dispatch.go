package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/fare"
	"wheelshare/internal/geo"
	"wheelshare/internal/repository"
)

const defaultSearchRadiusKm = 5.0

// NearbyRide is a pending ride as seen by a polling driver: the ride's trip
// plus what accepting it would pay, ranked by distance to the pickup point.
type NearbyRide struct {
	RideID           string
	PickupAddress    string
	DropAddress      string
	PickupLat        float64
	PickupLng        float64
	DropLat          float64
	DropLng          float64
	DistanceKm       float64
	Fare             decimal.Decimal
	DriverEarning    decimal.Decimal
	PickupDistanceKm float64
}

// DispatchService surfaces pending rides to eligible drivers and funnels the
// lifecycle operations to the ride service. Nearby queries are point-in-time
// snapshots: a ride claimed a moment ago may still appear, and the losing
// accept then fails with a conflict.
type DispatchService struct {
	rideRepo    repository.RideRepository
	driverRepo  repository.DriverRepository
	rideService *RideService
	fareCalc    *fare.Calculator
	radiusKm    float64
}

// NewDispatchService creates a new DispatchService. A radiusKm of 0 uses the
// default 5 km search radius.
func NewDispatchService(
	rideRepo repository.RideRepository,
	driverRepo repository.DriverRepository,
	rideService *RideService,
	fareCalc *fare.Calculator,
	radiusKm float64,
) *DispatchService {
	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}
	return &DispatchService{
		rideRepo:    rideRepo,
		driverRepo:  driverRepo,
		rideService: rideService,
		fareCalc:    fareCalc,
		radiusKm:    radiusKm,
	}
}

// PendingRides returns all REQUESTED rides with no assigned driver,
// unordered. Used for global visibility, not per-driver ranking.
func (s *DispatchService) PendingRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetPending(ctx)
}

// NearbyRides returns the pending rides whose pickup point lies within the
// search radius of the driver's current location, nearest first. A driver
// that is offline or has never reported a location sees an empty list, not
// an error.
func (s *DispatchService) NearbyRides(ctx context.Context, driverID string) ([]NearbyRide, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if !driver.IsAvailable || !driver.HasLocation {
		return []NearbyRide{}, nil
	}

	pending, err := s.rideRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		ride     *domain.Ride
		pickupKm float64
	}

	candidates := make([]candidate, 0, len(pending))
	for _, ride := range pending {
		pickupKm := geo.DistanceKm(driver.Lat, driver.Lng, ride.SourceLat, ride.SourceLng)
		if pickupKm > s.radiusKm {
			continue
		}
		candidates = append(candidates, candidate{ride: ride, pickupKm: pickupKm})
	}

	// Nearest pickup first; equal distances keep repository order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pickupKm < candidates[j].pickupKm
	})

	result := make([]NearbyRide, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, NearbyRide{
			RideID:           c.ride.ID,
			PickupAddress:    c.ride.SourceAddress,
			DropAddress:      c.ride.DestinationAddress,
			PickupLat:        c.ride.SourceLat,
			PickupLng:        c.ride.SourceLng,
			DropLat:          c.ride.DestinationLat,
			DropLng:          c.ride.DestinationLng,
			DistanceKm:       c.ride.DistanceKm,
			Fare:             c.ride.Fare.Round(2),
			DriverEarning:    s.fareCalc.DriverEarning(c.ride.Fare).Round(2),
			PickupDistanceKm: geo.Round2(c.pickupKm),
		})
	}

	return result, nil
}

// AcceptRide delegates the atomic claim to the ride service.
func (s *DispatchService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	return s.rideService.Accept(ctx, rideID, driverID)
}

// StartRide delegates to the ride service.
func (s *DispatchService) StartRide(ctx context.Context, rideID, driverID string) error {
	return s.rideService.Start(ctx, rideID, driverID)
}

// CompleteRide delegates to the ride service.
func (s *DispatchService) CompleteRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	return s.rideService.Complete(ctx, rideID, driverID)
}

// CancelRide delegates to the ride service.
func (s *DispatchService) CancelRide(ctx context.Context, rideID, customerID string) error {
	return s.rideService.Cancel(ctx, rideID, customerID)
}
