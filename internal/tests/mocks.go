package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/geo"
	"wheelshare/internal/redis"
	"wheelshare/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	SetAvailabilityCallCount int32
	MarkBusyCallCount        int32
	UpdateLocationCallCount  int32

	// Error injection
	SetAvailabilityError error
	UpdateLocationError  error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	atomic.AddInt32(&m.SetAvailabilityCallCount, 1)
	if m.SetAvailabilityError != nil {
		return m.SetAvailabilityError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsAvailable = available
	return nil
}

func (m *MockDriverRepository) MarkBusy(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkBusyCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	// Conditional flip, same as the UPDATE ... WHERE is_available = TRUE.
	if !driver.IsAvailable {
		return repository.ErrDriverBusy
	}
	driver.IsAvailable = false
	return nil
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Lat = lat
	driver.Lng = lng
	driver.HasLocation = true
	return nil
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. The
// conditional transitions hold the write lock for the whole check-and-set,
// mirroring the single-statement UPDATEs of the real repository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride
	order []string

	// Counters for verification
	CreateCallCount int32
	ClaimCallCount  int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	m.order = append(m.order, ride.ID)
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	m.order = append(m.order, ride.ID)
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok || ride.CustomerID != customerID {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetPending(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, id := range m.order {
		ride := m.rides[id]
		if ride.Status == domain.RideStatusRequested && ride.DriverID == "" {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, id := range m.order {
		ride := m.rides[id]
		if ride.CustomerID == customerID {
			copy := *ride
			result = append(result, &copy)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}

func (m *MockRideRepository) GetActiveByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, id := range m.order {
		ride := m.rides[id]
		if ride.DriverID != driverID {
			continue
		}
		if ride.Status == domain.RideStatusAccepted || ride.Status == domain.RideStatusStarted {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) Claim(ctx context.Context, rideID, driverID string, at time.Time) error {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusRequested || ride.DriverID != "" {
		return repository.ErrRideTaken
	}
	ride.DriverID = driverID
	ride.Status = domain.RideStatusAccepted
	ride.AcceptedAt = at
	return nil
}

func (m *MockRideRepository) Start(ctx context.Context, rideID, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusAccepted || ride.DriverID != driverID {
		return repository.ErrRideTaken
	}
	ride.Status = domain.RideStatusStarted
	return nil
}

func (m *MockRideRepository) Complete(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusStarted || ride.DriverID != driverID {
		return repository.ErrRideTaken
	}
	ride.Status = domain.RideStatusCompleted
	ride.FinalFare = decimal.NewNullDecimal(finalFare)
	ride.CompletedAt = at
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusRequested {
		return repository.ErrRideTaken
	}
	ride.Status = domain.RideStatusCancelled
	return nil
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *customer
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Unique on ride_id, like the real table.
	for _, p := range m.payments {
		if p.RideID == payment.RideID {
			return repository.ErrDuplicate
		}
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.RideID == rideID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	entries []*domain.WalletEntry

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{}
}

func (m *MockWalletRepository) Create(ctx context.Context, entry *domain.WalletEntry) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockWalletRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.WalletEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.WalletEntry, 0)
	for _, e := range m.entries {
		if e.DriverID == driverID {
			copy := *e
			result = append(result, &copy)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockWalletRepository) Balance(ctx context.Context, driverID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, e := range m.entries {
		if e.DriverID != driverID {
			continue
		}
		if e.Type == domain.WalletTransactionCredit {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

// Entries returns the stored entries for test assertions.
func (m *MockWalletRepository) Entries() []*domain.WalletEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.WalletEntry, len(m.entries))
	copy(result, m.entries)
	return result
}

// ──────────────────────────────────────────────
// MOCK TX STORE
// ──────────────────────────────────────────────

// MockTxStore implements repository.TxStore on top of the mock repositories.
// A single mutex serializes the multi-record transitions so the all-or-
// nothing guarantee of the real transactional store holds here too.
type MockTxStore struct {
	mu      sync.Mutex
	Rides   *MockRideRepository
	Drivers *MockDriverRepository
	Wallet  *MockWalletRepository

	// Error injection
	ClaimError    error
	CompleteError error
}

// NewMockTxStore creates a transactional store over the given mocks.
func NewMockTxStore(rides *MockRideRepository, drivers *MockDriverRepository, wallet *MockWalletRepository) *MockTxStore {
	return &MockTxStore{
		Rides:   rides,
		Drivers: drivers,
		Wallet:  wallet,
	}
}

func (m *MockTxStore) ClaimRide(ctx context.Context, rideID, driverID string, at time.Time) error {
	if m.ClaimError != nil {
		return m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.Rides.Claim(ctx, rideID, driverID, at); err != nil {
		return err
	}
	if err := m.Drivers.MarkBusy(ctx, driverID); err != nil {
		// Roll the claim back, like the real transaction.
		ride := m.Rides.GetRide(rideID)
		ride.DriverID = ""
		ride.Status = domain.RideStatusRequested
		ride.AcceptedAt = time.Time{}
		return err
	}
	return nil
}

func (m *MockTxStore) CompleteRide(ctx context.Context, rideID, driverID string, finalFare decimal.Decimal, earning *domain.WalletEntry, at time.Time) error {
	if m.CompleteError != nil {
		return m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.Rides.Complete(ctx, rideID, driverID, finalFare, at); err != nil {
		return err
	}
	if err := m.Drivers.SetAvailability(ctx, driverID, true); err != nil {
		return err
	}
	return m.Wallet.Create(ctx, earning)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string][2]float64

	// Counters for verification
	UpdateCallCount int32
	RemoveCallCount int32
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string][2]float64),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[driverID] = [2]float64{lat, lng}
	return nil
}

func (m *MockLocationStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]redis.DriverLocation, 0, len(m.locations))
	for id, loc := range m.locations {
		if geo.DistanceKm(lat, lng, loc[0], loc[1]) > radiusKm {
			continue
		}
		result = append(result, redis.DriverLocation{
			DriverID: id,
			Lat:      loc[0],
			Lng:      loc[1],
		})
	}
	// Nearest first, like the GEO radius query.
	sort.Slice(result, func(i, j int) bool {
		return geo.DistanceKm(lat, lng, result[i].Lat, result[i].Lng) <
			geo.DistanceKm(lat, lng, result[j].Lat, result[j].Lng)
	})
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, driverID)
	return nil
}

// HasLocation reports whether the store holds a location for the driver.
func (m *MockLocationStore) HasLocation(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[driverID]
	return ok
}
