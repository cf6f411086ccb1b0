// Package fare derives estimated fares and driver earnings.
//
// All arithmetic is fixed-point decimal so that the same fare survives
// estimate, request, completion and payout without rounding drift. Results
// are rounded to 2 decimal places only when exposed, via Decimal.Round.
package fare

import "github.com/shopspring/decimal"

// Config supplies the pricing parameters.
type Config struct {
	BaseFare          decimal.Decimal
	PerKmRate         decimal.Decimal
	CommissionPercent decimal.Decimal
}

// DefaultConfig returns the stock pricing parameters: base fare 50,
// 15 per km, 10% platform commission.
func DefaultConfig() Config {
	return Config{
		BaseFare:          decimal.NewFromInt(50),
		PerKmRate:         decimal.NewFromInt(15),
		CommissionPercent: decimal.NewFromInt(10),
	}
}

// Calculator computes fares from distances and earnings from fares.
// It is stateless; a single instance is shared by all callers.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator with the given pricing config.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// EstimateFare returns baseFare + perKmRate * distanceKm at full precision.
func (c *Calculator) EstimateFare(distanceKm float64) decimal.Decimal {
	return c.cfg.BaseFare.Add(c.cfg.PerKmRate.Mul(decimal.NewFromFloat(distanceKm)))
}

// DriverEarning returns the fare minus the platform commission:
// fare - fare * commissionPercent / 100.
func (c *Calculator) DriverEarning(rideFare decimal.Decimal) decimal.Decimal {
	commission := rideFare.Mul(c.cfg.CommissionPercent).Div(decimal.NewFromInt(100))
	return rideFare.Sub(commission)
}
