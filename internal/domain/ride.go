package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideStatus represents the current lifecycle status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "REQUESTED"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusStarted   RideStatus = "STARTED"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// IsTerminal reports whether no further lifecycle transition is permitted.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Ride represents a ride request in the system.
//
// DriverID is empty until the ride is accepted. FinalFare is set only on
// completion. Rides are retained as history and never deleted.
type Ride struct {
	ID                 string
	CustomerID         string
	DriverID           string
	SourceLat          float64
	SourceLng          float64
	SourceAddress      string
	DestinationLat     float64
	DestinationLng     float64
	DestinationAddress string
	DistanceKm         float64
	Fare               decimal.Decimal
	FinalFare          decimal.NullDecimal
	Status             RideStatus
	RequestedAt        time.Time
	AcceptedAt         time.Time
	CompletedAt        time.Time
}

// FareQuote is the ephemeral result of pricing a trip. It is produced by the
// fare calculator and consumed immediately by estimate/request operations.
type FareQuote struct {
	DistanceKm    float64
	EstimatedFare decimal.Decimal
}
