package service

import "errors"

var (
	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidSourceLocation is returned when pickup coordinates are invalid.
	ErrInvalidSourceLocation = errors.New("invalid source location")

	// ErrInvalidDestinationLocation is returned when destination coordinates are invalid.
	ErrInvalidDestinationLocation = errors.New("invalid destination location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrRideTaken is returned when a ride has already been claimed or
	// cancelled. Expected under concurrency: the losing drivers of an accept
	// race all see it.
	ErrRideTaken = errors.New("ride already taken or cancelled")

	// ErrDriverUnavailable is returned when a driver attempts to accept a
	// ride while offline or already on an active ride.
	ErrDriverUnavailable = errors.New("driver not available")

	// ErrNotRideDriver is returned when the caller is not the driver assigned
	// to the ride.
	ErrNotRideDriver = errors.New("ride not assigned to this driver")

	// ErrRideNotAccepted is returned when starting a ride not in ACCEPTED state.
	ErrRideNotAccepted = errors.New("ride cannot be started")

	// ErrRideNotStarted is returned when completing a ride not in STARTED state.
	ErrRideNotStarted = errors.New("ride cannot be completed")

	// ErrRideNotCancellable is returned when cancelling a ride that already
	// left REQUESTED.
	ErrRideNotCancellable = errors.New("ride cannot be cancelled")

	// ErrDriverOffline is returned when an offline driver reports a location.
	ErrDriverOffline = errors.New("driver is offline")

	// ErrRideNotCompleted is returned when paying for a ride that has not completed.
	ErrRideNotCompleted = errors.New("ride not completed")

	// ErrPaymentExists is returned when a ride has already been paid.
	ErrPaymentExists = errors.New("payment already made for this ride")
)
