package service

import (
	"context"

	"wheelshare/internal/domain"
	"wheelshare/internal/geo"
	"wheelshare/internal/redis"
	"wheelshare/internal/repository"
)

// DriverService tracks driver availability and location. It is the only
// writer of the availability flag apart from the ride lifecycle (accept and
// complete), which flips it through its own transactional store.
type DriverService struct {
	driverRepo    repository.DriverRepository
	locationStore redis.LocationStoreInterface
}

// NewDriverService creates a new DriverService. locationStore may be nil
// when no Redis is configured.
func NewDriverService(driverRepo repository.DriverRepository, locationStore redis.LocationStoreInterface) *DriverService {
	return &DriverService{
		driverRepo:    driverRepo,
		locationStore: locationStore,
	}
}

// GoOnline marks the driver available for dispatch.
func (s *DriverService) GoOnline(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	return s.driverRepo.SetAvailability(ctx, driverID, true)
}

// GoOffline marks the driver unavailable, unconditionally. A driver mid-ride
// keeps the ride; the flag only stops new dispatch.
func (s *DriverService) GoOffline(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if err := s.driverRepo.SetAvailability(ctx, driverID, false); err != nil {
		return err
	}

	if s.locationStore != nil {
		_ = s.locationStore.RemoveLocation(ctx, driverID)
	}

	return nil
}

// UpdateLocationCommand contains the parameters for a location report.
type UpdateLocationCommand struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// UpdateLocation overwrites the driver's current coordinates. Only online
// drivers may report; no location history is retained.
func (s *DriverService) UpdateLocation(ctx context.Context, cmd UpdateLocationCommand) error {
	if cmd.DriverID == "" {
		return ErrInvalidDriverID
	}
	if !geo.ValidLatitude(cmd.Lat) || !geo.ValidLongitude(cmd.Lng) {
		return ErrInvalidLocation
	}

	driver, err := s.driverRepo.GetByID(ctx, cmd.DriverID)
	if err != nil {
		return err
	}
	if !driver.IsAvailable {
		return ErrDriverOffline
	}

	if err := s.driverRepo.UpdateLocation(ctx, cmd.DriverID, cmd.Lat, cmd.Lng); err != nil {
		return err
	}

	// Mirror into the realtime geo index; postgres remains the source of
	// truth for dispatch.
	if s.locationStore != nil {
		_ = s.locationStore.UpdateLocation(ctx, cmd.DriverID, cmd.Lat, cmd.Lng)
	}

	return nil
}

// ListDrivers retrieves all drivers, for ops tooling.
func (s *DriverService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

// NearbyDrivers returns drivers within radiusKm of a point, nearest first,
// from the realtime geo index. A radiusKm of 0 uses the default search
// radius. The index only holds online drivers, so the result is the live
// map view, not the full roster.
func (s *DriverService) NearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}
	if s.locationStore == nil {
		return []redis.DriverLocation{}, nil
	}
	return s.locationStore.FindNearbyDrivers(ctx, lat, lng, radiusKm)
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.driverRepo.GetByID(ctx, driverID)
}
