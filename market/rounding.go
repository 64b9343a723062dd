package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundPrice rounds a price to a tenth of a pip (pipScale+1 decimal digits)
// using half-up semantics. Idempotent: rounding an already-rounded price is a
// no-op.
func RoundPrice(inst Instrument, value float64) float64 {
	d := decimal.NewFromFloat(value)
	f, _ := d.Round(int32(inst.PipScale) + 1).Float64()
	return f
}

// RoundLot floors a lot size toward zero at 0.001 granularity, the venue's
// minimum tradable increment of 1,000 base-currency units. NaN passes
// through so a failed conversion upstream stays visible.
func RoundLot(lot float64) float64 {
	if math.IsNaN(lot) {
		return lot
	}
	f, _ := decimal.NewFromFloat(lot).Truncate(3).Float64()
	return f
}
