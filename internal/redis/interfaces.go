package redis

import "context"

// LocationStoreInterface defines the interface for the driver location index.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]DriverLocation, error)
	RemoveLocation(ctx context.Context, driverID string) error
}

// Ensure concrete types implement interfaces.
var _ LocationStoreInterface = (*LocationStore)(nil)
