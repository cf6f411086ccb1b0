package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrRideTaken is returned when a conditional ride update matched no row
	// because the ride already left the expected status. Claim races surface
	// this to exactly N-1 of N concurrent accepts.
	ErrRideTaken = errors.New("ride no longer in expected status")

	// ErrDriverBusy is returned when flipping a driver to busy matched no row
	// because the driver was not available.
	ErrDriverBusy = errors.New("driver not available")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, such as a second payment for the same ride.
	ErrDuplicate = errors.New("entity already exists")
)
