package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/fare"
	"wheelshare/internal/repository"
	"wheelshare/internal/service"
)

type rideFixture struct {
	rides     *MockRideRepository
	drivers   *MockDriverRepository
	customers *MockCustomerRepository
	wallet    *MockWalletRepository
	txStore   *MockTxStore
	svc       *service.RideService
}

func newRideFixture() *rideFixture {
	rides := NewMockRideRepository()
	drivers := NewMockDriverRepository()
	customers := NewMockCustomerRepository()
	wallet := NewMockWalletRepository()
	txStore := NewMockTxStore(rides, drivers, wallet)

	svc := service.NewRideService(
		rides, drivers, customers, txStore,
		fare.NewCalculator(fare.DefaultConfig()),
		nil,
	)

	return &rideFixture{
		rides:     rides,
		drivers:   drivers,
		customers: customers,
		wallet:    wallet,
		txStore:   txStore,
		svc:       svc,
	}
}

func (f *rideFixture) addCustomer(id string) {
	f.customers.AddCustomer(&domain.Customer{ID: id, Name: "Test Customer"})
}

func (f *rideFixture) addDriver(id string, available bool) {
	f.drivers.AddDriver(&domain.Driver{
		ID:          id,
		Name:        "Test Driver",
		IsAvailable: available,
		IsVerified:  true,
	})
}

func (f *rideFixture) addRequestedRide(id, customerID string) *domain.Ride {
	ride := &domain.Ride{
		ID:          id,
		CustomerID:  customerID,
		SourceLat:   12.9716,
		SourceLng:   77.5946,
		Status:      domain.RideStatusRequested,
		Fare:        decimal.NewFromInt(200),
		RequestedAt: time.Now(),
	}
	f.rides.AddRide(ride)
	return ride
}

func TestRequestRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")

	ride, err := f.svc.Request(context.Background(), service.RequestRideCommand{
		CustomerID:         "cust-1",
		SourceLat:          12.9716,
		SourceLng:          77.5946,
		SourceAddress:      "MG Road",
		DestinationLat:     12.9352,
		DestinationLng:     77.6245,
		DestinationAddress: "Koramangala",
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected status REQUESTED, got %s", ride.Status)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver assigned, got %s", ride.DriverID)
	}
	if ride.DistanceKm <= 0 {
		t.Errorf("expected positive distance, got %f", ride.DistanceKm)
	}
	// base 50 + 15/km on a ~5 km trip must exceed the base fare alone.
	if !ride.Fare.GreaterThan(decimal.NewFromInt(50)) {
		t.Errorf("expected fare above base fare, got %s", ride.Fare)
	}
	if f.rides.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", f.rides.CreateCallCount)
	}
}

func TestRequestRideHonorsQuotedFare(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")

	quoted := decimal.RequireFromString("123.45")
	ride, err := f.svc.Request(context.Background(), service.RequestRideCommand{
		CustomerID:     "cust-1",
		SourceLat:      12.9716,
		SourceLng:      77.5946,
		DestinationLat: 12.9352,
		DestinationLng: 77.6245,
		QuotedFare:     quoted,
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if !ride.Fare.Equal(quoted) {
		t.Errorf("expected quoted fare %s, got %s", quoted, ride.Fare)
	}
}

func TestRequestRideValidation(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")

	testCases := []struct {
		name    string
		cmd     service.RequestRideCommand
		wantErr error
	}{
		{
			name:    "missing customer",
			cmd:     service.RequestRideCommand{SourceLat: 10, SourceLng: 10, DestinationLat: 11, DestinationLng: 11},
			wantErr: service.ErrInvalidCustomerID,
		},
		{
			name:    "bad source latitude",
			cmd:     service.RequestRideCommand{CustomerID: "cust-1", SourceLat: 91, SourceLng: 10, DestinationLat: 11, DestinationLng: 11},
			wantErr: service.ErrInvalidSourceLocation,
		},
		{
			name:    "bad destination longitude",
			cmd:     service.RequestRideCommand{CustomerID: "cust-1", SourceLat: 10, SourceLng: 10, DestinationLat: 11, DestinationLng: 181},
			wantErr: service.ErrInvalidDestinationLocation,
		},
		{
			name:    "unknown customer",
			cmd:     service.RequestRideCommand{CustomerID: "ghost", SourceLat: 10, SourceLng: 10, DestinationLat: 11, DestinationLng: 11},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Request(context.Background(), tc.cmd)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	f := newRideFixture()

	quote, err := f.svc.Quote(context.Background(), 12.9716, 77.5946, 12.9352, 77.6245)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if quote.DistanceKm <= 0 {
		t.Errorf("expected positive distance, got %f", quote.DistanceKm)
	}
	// Estimate = 50 + 15 * distance, rounded to 2 decimals.
	want := decimal.NewFromInt(50).Add(decimal.NewFromFloat(quote.DistanceKm).Mul(decimal.NewFromInt(15)))
	diff := quote.EstimatedFare.Sub(want).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.2")) {
		t.Errorf("estimate %s too far from %s", quote.EstimatedFare, want)
	}

	if _, err := f.svc.Quote(context.Background(), 95, 77, 12, 77); !errors.Is(err, service.ErrInvalidSourceLocation) {
		t.Errorf("expected ErrInvalidSourceLocation, got %v", err)
	}
}

func TestAcceptRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	ride, err := f.svc.Accept(context.Background(), "ride-1", "drv-1")
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", ride.DriverID)
	}
	if ride.AcceptedAt.IsZero() {
		t.Error("expected AcceptedAt to be set")
	}

	// Accepting takes the driver off the dispatch pool.
	driver := f.drivers.GetDriver("drv-1")
	if driver.IsAvailable {
		t.Error("expected driver to be unavailable after accept")
	}
}

func TestAcceptRideOfflineDriver(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", false)
	f.addRequestedRide("ride-1", "cust-1")

	_, err := f.svc.Accept(context.Background(), "ride-1", "drv-1")
	if !errors.Is(err, service.ErrDriverUnavailable) {
		t.Errorf("expected ErrDriverUnavailable, got %v", err)
	}
}

func TestAcceptRideAlreadyTaken(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addDriver("drv-2", true)
	f.addRequestedRide("ride-1", "cust-1")

	if _, err := f.svc.Accept(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := f.svc.Accept(context.Background(), "ride-1", "drv-2")
	if !errors.Is(err, service.ErrRideTaken) {
		t.Errorf("expected ErrRideTaken, got %v", err)
	}
}

func TestAcceptRideConcurrent(t *testing.T) {
	const drivers = 10

	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addRequestedRide("ride-1", "cust-1")

	driverIDs := make([]string, drivers)
	for i := range driverIDs {
		driverIDs[i] = "drv-" + string(rune('a'+i))
		f.addDriver(driverIDs[i], true)
	}

	var wg sync.WaitGroup
	results := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Accept(context.Background(), "ride-1", driverIDs[i])
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, service.ErrRideTaken):
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if won != 1 {
		t.Errorf("expected exactly 1 winning accept, got %d", won)
	}
	if lost != drivers-1 {
		t.Errorf("expected %d losing accepts, got %d", drivers-1, lost)
	}

	ride := f.rides.GetRide("ride-1")
	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", ride.Status)
	}
}

func TestStartRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	if _, err := f.svc.Accept(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := f.svc.Start(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if got := f.rides.GetRide("ride-1").Status; got != domain.RideStatusStarted {
		t.Errorf("expected status STARTED, got %s", got)
	}
}

func TestStartRideWrongDriver(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addDriver("drv-2", true)
	f.addRequestedRide("ride-1", "cust-1")

	if _, err := f.svc.Accept(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	err := f.svc.Start(context.Background(), "ride-1", "drv-2")
	if !errors.Is(err, service.ErrNotRideDriver) {
		t.Errorf("expected ErrNotRideDriver, got %v", err)
	}
}

func TestStartRideNotAccepted(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	ride := f.addRequestedRide("ride-1", "cust-1")

	// Force-assign without transitioning, so the status gate trips.
	ride.DriverID = "drv-1"

	err := f.svc.Start(context.Background(), "ride-1", "drv-1")
	if !errors.Is(err, service.ErrRideNotAccepted) {
		t.Errorf("expected ErrRideNotAccepted, got %v", err)
	}
}

func TestCompleteRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	ctx := context.Background()
	if _, err := f.svc.Accept(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := f.svc.Start(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	completed, err := f.svc.Complete(ctx, "ride-1", "drv-1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if completed.Status != domain.RideStatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", completed.Status)
	}
	if !completed.FinalFare.Valid {
		t.Fatal("expected final fare to be set")
	}
	if !completed.FinalFare.Decimal.Equal(completed.Fare) {
		t.Errorf("expected final fare %s to equal quoted fare %s", completed.FinalFare.Decimal, completed.Fare)
	}
	if completed.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set")
	}

	// Driver returns to the pool.
	if !f.drivers.GetDriver("drv-1").IsAvailable {
		t.Error("expected driver to be available after completion")
	}

	// Earning credited: 200 fare, 10% commission.
	entries := f.wallet.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 wallet entry, got %d", len(entries))
	}
	if entries[0].Type != domain.WalletTransactionCredit {
		t.Errorf("expected CREDIT entry, got %s", entries[0].Type)
	}
	want := decimal.RequireFromString("180")
	if !entries[0].Amount.Equal(want) {
		t.Errorf("expected earning %s, got %s", want, entries[0].Amount)
	}
}

func TestCompleteRideNotStarted(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	ctx := context.Background()
	if _, err := f.svc.Accept(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	_, err := f.svc.Complete(ctx, "ride-1", "drv-1")
	if !errors.Is(err, service.ErrRideNotStarted) {
		t.Errorf("expected ErrRideNotStarted, got %v", err)
	}
}

func TestCompleteRideTwice(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	ctx := context.Background()
	if _, err := f.svc.Accept(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := f.svc.Start(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.svc.Complete(ctx, "ride-1", "drv-1"); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}

	_, err := f.svc.Complete(ctx, "ride-1", "drv-1")
	if !errors.Is(err, service.ErrRideNotStarted) {
		t.Errorf("expected ErrRideNotStarted on double complete, got %v", err)
	}

	if got := len(f.wallet.Entries()); got != 1 {
		t.Errorf("expected single wallet credit, got %d", got)
	}
}

func TestCancelRide(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addRequestedRide("ride-1", "cust-1")

	if err := f.svc.Cancel(context.Background(), "ride-1", "cust-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if got := f.rides.GetRide("ride-1").Status; got != domain.RideStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", got)
	}
}

func TestCancelRideWrongCustomer(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addRequestedRide("ride-1", "cust-1")

	// Another customer's ride looks like a missing ride.
	err := f.svc.Cancel(context.Background(), "ride-1", "cust-2")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelRideAfterAccept(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")
	f.addDriver("drv-1", true)
	f.addRequestedRide("ride-1", "cust-1")

	if _, err := f.svc.Accept(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	err := f.svc.Cancel(context.Background(), "ride-1", "cust-1")
	if !errors.Is(err, service.ErrRideNotCancellable) {
		t.Errorf("expected ErrRideNotCancellable, got %v", err)
	}
}

func TestRideHistory(t *testing.T) {
	f := newRideFixture()
	f.addCustomer("cust-1")

	old := f.addRequestedRide("ride-old", "cust-1")
	old.RequestedAt = time.Now().Add(-time.Hour)
	f.addRequestedRide("ride-new", "cust-1")
	f.addRequestedRide("ride-other", "cust-2")

	history, err := f.svc.HistoryForCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 rides, got %d", len(history))
	}
	if history[0].ID != "ride-new" {
		t.Errorf("expected newest ride first, got %s", history[0].ID)
	}
}
