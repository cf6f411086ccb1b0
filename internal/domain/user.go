package domain

import "time"

// Customer represents a rider account. Registration and verification happen
// in an external service; this system only reads customers to validate ride
// requests.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
