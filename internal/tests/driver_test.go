package tests

import (
	"context"
	"errors"
	"testing"

	"wheelshare/internal/domain"
	"wheelshare/internal/repository"
	"wheelshare/internal/service"
)

type driverFixture struct {
	drivers   *MockDriverRepository
	locations *MockLocationStore
	svc       *service.DriverService
}

func newDriverFixture() *driverFixture {
	drivers := NewMockDriverRepository()
	locations := NewMockLocationStore()
	return &driverFixture{
		drivers:   drivers,
		locations: locations,
		svc:       service.NewDriverService(drivers, locations),
	}
}

func TestGoOnline(t *testing.T) {
	f := newDriverFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "drv-1", IsAvailable: false})

	if err := f.svc.GoOnline(context.Background(), "drv-1"); err != nil {
		t.Fatalf("GoOnline failed: %v", err)
	}
	if !f.drivers.GetDriver("drv-1").IsAvailable {
		t.Error("expected driver to be available")
	}
}

func TestGoOffline(t *testing.T) {
	f := newDriverFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "drv-1", IsAvailable: true})
	_ = f.locations.UpdateLocation(context.Background(), "drv-1", 12.9716, 77.5946)

	if err := f.svc.GoOffline(context.Background(), "drv-1"); err != nil {
		t.Fatalf("GoOffline failed: %v", err)
	}
	if f.drivers.GetDriver("drv-1").IsAvailable {
		t.Error("expected driver to be unavailable")
	}
	if f.locations.HasLocation("drv-1") {
		t.Error("expected location to be dropped from the geo index")
	}
}

func TestGoOnlineUnknownDriver(t *testing.T) {
	f := newDriverFixture()

	if err := f.svc.GoOnline(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	f := newDriverFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "drv-1", IsAvailable: true})

	err := f.svc.UpdateLocation(context.Background(), service.UpdateLocationCommand{
		DriverID: "drv-1",
		Lat:      12.9716,
		Lng:      77.5946,
	})
	if err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}

	driver := f.drivers.GetDriver("drv-1")
	if !driver.HasLocation {
		t.Error("expected HasLocation to be set after first report")
	}
	if driver.Lat != 12.9716 || driver.Lng != 77.5946 {
		t.Errorf("unexpected coordinates %f,%f", driver.Lat, driver.Lng)
	}
	if !f.locations.HasLocation("drv-1") {
		t.Error("expected location mirrored into the geo index")
	}
}

func TestUpdateLocationOffline(t *testing.T) {
	f := newDriverFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "drv-1", IsAvailable: false})

	err := f.svc.UpdateLocation(context.Background(), service.UpdateLocationCommand{
		DriverID: "drv-1",
		Lat:      12.9716,
		Lng:      77.5946,
	})
	if !errors.Is(err, service.ErrDriverOffline) {
		t.Errorf("expected ErrDriverOffline, got %v", err)
	}
	if f.drivers.UpdateLocationCallCount != 0 {
		t.Error("offline report must not write a location")
	}
}

func TestUpdateLocationInvalidCoordinates(t *testing.T) {
	f := newDriverFixture()
	f.drivers.AddDriver(&domain.Driver{ID: "drv-1", IsAvailable: true})

	testCases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude above range", 90.5, 77.5946},
		{"latitude below range", -90.5, 77.5946},
		{"longitude above range", 12.9716, 180.5},
		{"longitude below range", 12.9716, -180.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.UpdateLocation(context.Background(), service.UpdateLocationCommand{
				DriverID: "drv-1",
				Lat:      tc.lat,
				Lng:      tc.lng,
			})
			if !errors.Is(err, service.ErrInvalidLocation) {
				t.Errorf("expected ErrInvalidLocation, got %v", err)
			}
		})
	}
}

func TestNearbyDrivers(t *testing.T) {
	f := newDriverFixture()

	ctx := context.Background()
	// ~1 km, ~9 km and ~15 km north of the query point.
	_ = f.locations.UpdateLocation(ctx, "drv-near", 12.9806, 77.5946)
	_ = f.locations.UpdateLocation(ctx, "drv-mid", 13.0526, 77.5946)
	_ = f.locations.UpdateLocation(ctx, "drv-far", 13.1066, 77.5946)

	drivers, err := f.svc.NearbyDrivers(ctx, 12.9716, 77.5946, 10)
	if err != nil {
		t.Fatalf("NearbyDrivers failed: %v", err)
	}

	if len(drivers) != 2 {
		t.Fatalf("expected 2 drivers within radius, got %d", len(drivers))
	}
	if drivers[0].DriverID != "drv-near" || drivers[1].DriverID != "drv-mid" {
		t.Errorf("expected nearest-first [drv-near drv-mid], got [%s %s]",
			drivers[0].DriverID, drivers[1].DriverID)
	}
}

func TestNearbyDriversInvalidPoint(t *testing.T) {
	f := newDriverFixture()

	if _, err := f.svc.NearbyDrivers(context.Background(), 95, 77, 5); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestGoOfflineKeepsActiveRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	ctx := context.Background()
	if _, err := f.svc.Accept(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	driverSvc := service.NewDriverService(f.drivers, nil)
	if err := driverSvc.GoOffline(ctx, "drv-1"); err != nil {
		t.Fatalf("GoOffline failed: %v", err)
	}

	// Going offline stops dispatch but never touches the ride.
	if got := f.rides.GetRide("ride-1").Status; got != domain.RideStatusAccepted {
		t.Errorf("expected ride still ACCEPTED, got %s", got)
	}
	if err := f.svc.Start(ctx, "ride-1", "drv-1"); err != nil {
		t.Errorf("driver must be able to start the held ride: %v", err)
	}
}
