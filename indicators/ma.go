// Package indicators provides streaming technical indicators over candles.
package indicators

import (
	"fmt"

	"github.com/quantfx/fxrisk/market"
)

// SMA is a streaming Simple Moving Average indicator.
type SMA struct {
	period  int
	closes  []float64
	sum     float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SMA) Warmup() int {
	return m.period
}

func (m *SMA) Update(c market.Candle) {
	m.closes = append(m.closes, c.Close)
	m.sum += c.Close
	if len(m.closes) > m.period {
		m.sum -= m.closes[0]
		m.closes = m.closes[1:]
	}
}

func (m *SMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(len(m.closes))
}

// EMA is a streaming Exponential Moving Average indicator. The first value
// is seeded with the SMA of the warmup window.
type EMA struct {
	period int
	count  int
	seed   float64
	ema    float64
}

func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (m *EMA) Name() string {
	return fmt.Sprintf("EMA(%d)", m.period)
}

func (m *EMA) Warmup() int {
	return m.period
}

func (m *EMA) Update(c market.Candle) {
	m.count++
	if m.count < m.period {
		m.seed += c.Close
		return
	}
	if m.count == m.period {
		m.seed += c.Close
		m.ema = m.seed / float64(m.period)
		return
	}
	multiplier := 2.0 / float64(m.period+1)
	m.ema = (c.Close-m.ema)*multiplier + m.ema
}

func (m *EMA) Ready() bool {
	return m.count >= m.period
}

func (m *EMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.ema
}
