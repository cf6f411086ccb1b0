package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/fare"
	"wheelshare/internal/repository"
	"wheelshare/internal/service"
)

type dispatchFixture struct {
	*rideFixture
	svc *service.DispatchService
}

func newDispatchFixture(radiusKm float64) *dispatchFixture {
	f := newRideFixture()
	dispatch := service.NewDispatchService(
		f.rides, f.drivers, f.svc,
		fare.NewCalculator(fare.DefaultConfig()),
		radiusKm,
	)
	return &dispatchFixture{rideFixture: f, svc: dispatch}
}

func (f *dispatchFixture) addDriverAt(id string, lat, lng float64) {
	f.drivers.AddDriver(&domain.Driver{
		ID:          id,
		Name:        "Test Driver",
		IsAvailable: true,
		IsVerified:  true,
		Lat:         lat,
		Lng:         lng,
		HasLocation: true,
	})
}

func (f *dispatchFixture) addRideAt(id string, pickupLat, pickupLng float64) {
	f.rides.AddRide(&domain.Ride{
		ID:          id,
		CustomerID:  "cust-1",
		SourceLat:   pickupLat,
		SourceLng:   pickupLng,
		Status:      domain.RideStatusRequested,
		Fare:        decimal.NewFromInt(100),
		RequestedAt: time.Now(),
	})
}

func TestNearbyRidesRadiusFilter(t *testing.T) {
	f := newDispatchFixture(5)
	f.addDriverAt("drv-1", 12.9716, 77.5946)

	// Roughly 0 km, ~1.5 km and ~15 km from the driver.
	f.addRideAt("ride-here", 12.9716, 77.5946)
	f.addRideAt("ride-close", 12.9850, 77.5946)
	f.addRideAt("ride-far", 13.1070, 77.5946)

	rides, err := f.svc.NearbyRides(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("NearbyRides failed: %v", err)
	}

	if len(rides) != 2 {
		t.Fatalf("expected 2 rides within radius, got %d", len(rides))
	}
	for _, r := range rides {
		if r.RideID == "ride-far" {
			t.Error("ride outside radius must not appear")
		}
	}
}

func TestNearbyRidesSortedByPickupDistance(t *testing.T) {
	f := newDispatchFixture(50)
	f.addDriverAt("drv-1", 12.9716, 77.5946)

	f.addRideAt("ride-mid", 13.05, 77.5946)
	f.addRideAt("ride-near", 12.98, 77.5946)
	f.addRideAt("ride-edge", 13.20, 77.5946)

	rides, err := f.svc.NearbyRides(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("NearbyRides failed: %v", err)
	}

	if len(rides) != 3 {
		t.Fatalf("expected 3 rides, got %d", len(rides))
	}

	wantOrder := []string{"ride-near", "ride-mid", "ride-edge"}
	for i, want := range wantOrder {
		if rides[i].RideID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, rides[i].RideID)
		}
	}

	for i := 1; i < len(rides); i++ {
		if rides[i].PickupDistanceKm < rides[i-1].PickupDistanceKm {
			t.Errorf("pickup distances not ascending at %d", i)
		}
	}
}

func TestNearbyRidesEarnings(t *testing.T) {
	f := newDispatchFixture(5)
	f.addDriverAt("drv-1", 12.9716, 77.5946)
	f.addRideAt("ride-1", 12.9716, 77.5946)

	rides, err := f.svc.NearbyRides(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("NearbyRides failed: %v", err)
	}
	if len(rides) != 1 {
		t.Fatalf("expected 1 ride, got %d", len(rides))
	}

	// Fare 100, 10% commission.
	if want := decimal.RequireFromString("90"); !rides[0].DriverEarning.Equal(want) {
		t.Errorf("expected earning %s, got %s", want, rides[0].DriverEarning)
	}
	if want := decimal.RequireFromString("100"); !rides[0].Fare.Equal(want) {
		t.Errorf("expected fare %s, got %s", want, rides[0].Fare)
	}
}

func TestNearbyRidesOfflineDriver(t *testing.T) {
	f := newDispatchFixture(5)
	f.drivers.AddDriver(&domain.Driver{
		ID:          "drv-1",
		IsAvailable: false,
		Lat:         12.9716,
		Lng:         77.5946,
		HasLocation: true,
	})
	f.addRideAt("ride-1", 12.9716, 77.5946)

	rides, err := f.svc.NearbyRides(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("NearbyRides failed: %v", err)
	}
	if len(rides) != 0 {
		t.Errorf("offline driver must see no rides, got %d", len(rides))
	}
}

func TestNearbyRidesNoLocation(t *testing.T) {
	f := newDispatchFixture(5)
	f.drivers.AddDriver(&domain.Driver{
		ID:          "drv-1",
		IsAvailable: true,
	})
	f.addRideAt("ride-1", 12.9716, 77.5946)

	rides, err := f.svc.NearbyRides(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("NearbyRides failed: %v", err)
	}
	if len(rides) != 0 {
		t.Errorf("driver without a location must see no rides, got %d", len(rides))
	}
}

func TestNearbyRidesUnknownDriver(t *testing.T) {
	f := newDispatchFixture(5)

	_, err := f.svc.NearbyRides(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingRidesExcludesClaimed(t *testing.T) {
	f := newDispatchFixture(5)
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRideAt("ride-1", 12.9716, 77.5946)
	f.addRideAt("ride-2", 12.9716, 77.5946)

	if _, err := f.svc.AcceptRide(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	pending, err := f.svc.PendingRides(context.Background())
	if err != nil {
		t.Fatalf("PendingRides failed: %v", err)
	}

	if len(pending) != 1 {
		t.Fatalf("expected 1 pending ride, got %d", len(pending))
	}
	if pending[0].ID != "ride-2" {
		t.Errorf("expected ride-2 pending, got %s", pending[0].ID)
	}
}
