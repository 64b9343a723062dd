// Package risk tracks account equity against its historical peak and sizes
// positions to a target fraction of equity.
package risk

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/quantfx/fxrisk/market"
)

var ErrThresholdRange = errors.New("drawdown threshold must be in [0, 1]")

// accountState is an immutable equity snapshot. Updates replace the whole
// value so concurrent readers never observe a half-written state.
type accountState struct {
	equity float64
	peak   float64
}

// Tracker holds the current equity and peak-equity-to-date of the account.
//
// UpdateEquity must only be called from the single path that receives venue
// account events; all read methods are safe from any goroutine.
type Tracker struct {
	currency market.Currency
	state    atomic.Pointer[accountState]
}

func NewTracker(currency market.Currency) *Tracker {
	t := &Tracker{currency: currency}
	// Peak starts at -Inf so the first observation always becomes the peak.
	t.state.Store(&accountState{equity: math.NaN(), peak: math.Inf(-1)})
	return t
}

func (t *Tracker) Currency() market.Currency { return t.currency }

func (t *Tracker) Equity() float64 {
	return t.state.Load().equity
}

// UpdateEquity records an account-event equity observation, raising the peak
// if the new equity exceeds it.
func (t *Tracker) UpdateEquity(equity float64) {
	peak := t.state.Load().peak
	if equity > peak {
		peak = equity
	}
	t.state.Store(&accountState{equity: equity, peak: peak})
}

// Drawdown returns the proportional decline from peak equity, positive when
// the account is below its peak. Well-defined only after the first
// UpdateEquity call.
func (t *Tracker) Drawdown() float64 {
	s := t.state.Load()
	return 1 - s.equity/s.peak
}

// IsMaxDrawdownBroken reports whether the current drawdown exceeds threshold.
// The threshold is a fraction: a 5% limit is 0.05.
func (t *Tracker) IsMaxDrawdownBroken(threshold float64) (bool, error) {
	if threshold < 0 || threshold > 1 {
		return false, fmt.Errorf("%w: got %v", ErrThresholdRange, threshold)
	}
	return t.Drawdown() > threshold, nil
}
