package domain

// Driver represents a driver in the system.
//
// A driver's id shares the identity space of the account that provisioned it:
// the account service creates the row, this system only mutates availability
// and location. HasLocation is false until the first location update.
type Driver struct {
	ID          string
	Name        string
	Phone       string
	IsAvailable bool
	IsVerified  bool
	Lat         float64
	Lng         float64
	HasLocation bool
}
