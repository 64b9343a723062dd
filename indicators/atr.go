package indicators

import (
	"fmt"
	"math"

	"github.com/quantfx/fxrisk/market"
)

// ATR is a streaming Average True Range indicator using Wilder's smoothing.
type ATR struct {
	period    int
	count     int
	warmupSum float64
	atr       float64
	prev      market.Candle
	hasPrev   bool
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

// Warmup is period+1 candles: the first candle only seeds the previous close.
func (a *ATR) Warmup() int {
	return a.period + 1
}

func (a *ATR) Update(c market.Candle) {
	if !a.hasPrev {
		a.prev = c
		a.hasPrev = true
		return
	}

	tr := trueRange(c, a.prev)
	a.prev = c
	a.count++

	switch {
	case a.count < a.period:
		a.warmupSum += tr
	case a.count == a.period:
		a.warmupSum += tr
		a.atr = a.warmupSum / float64(a.period)
	default:
		a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
	}
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

func trueRange(c, prev market.Candle) float64 {
	hl := c.High - c.Low
	hc := math.Abs(c.High - prev.Close)
	lc := math.Abs(c.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}
