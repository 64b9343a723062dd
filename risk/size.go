package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/quantfx/fxrisk/market"
)

var (
	ErrRiskFraction = errors.New("risk fraction must be in (0, 1]")
	ErrParts        = errors.New("parts must be at least 1")
)

// Converter answers how much one quote-currency price unit of an instrument
// is worth in the account currency.
type Converter interface {
	ConvertValue(inst market.Instrument, value float64) float64
}

// SuggestedLot sizes a position so that a stop-out at stopDistance loses
// riskFraction of current equity. The result is in the venue's lot unit
// (millions of base currency), floored to the minimum tradable increment.
//
// A failed quote conversion propagates as NaN; callers must check before
// submitting.
func (t *Tracker) SuggestedLot(conv Converter, inst market.Instrument, riskFraction, stopDistance float64) (float64, error) {
	return t.SuggestedPartLot(conv, inst, riskFraction, stopDistance, 1)
}

// SuggestedPartLot splits one logical risk allocation across parts orders.
// The division happens before flooring, so the aggregate of the parts never
// exceeds the undivided suggestion. stopDistance is the absolute price delta
// between entry and stop; its sign is ignored.
func (t *Tracker) SuggestedPartLot(conv Converter, inst market.Instrument, riskFraction, stopDistance float64, parts int) (float64, error) {
	if riskFraction <= 0 || riskFraction > 1 {
		return 0, fmt.Errorf("%w: got %v", ErrRiskFraction, riskFraction)
	}
	if parts < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrParts, parts)
	}

	riskPerUnit := conv.ConvertValue(inst, math.Abs(stopDistance))
	lot := t.Equity() * riskFraction / riskPerUnit
	lot /= 1e6 // venue sizes in millions of base units
	lot /= float64(parts)
	if math.IsNaN(lot) {
		return lot, nil
	}
	return market.RoundLot(lot), nil
}
