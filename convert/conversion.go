// Package convert turns quote-currency amounts into account-currency amounts,
// routing through a transitional pair when an instrument shares no leg with
// the account currency.
package convert

import (
	"context"
	"log/slog"
	"math"

	"github.com/quantfx/fxrisk/market"
)

// Converter computes account-currency values for instrument price moves.
// Safe for concurrent use: the pair registry is read-only after construction.
type Converter struct {
	account market.Currency
	pairs   map[market.Currency]market.Instrument
	prices  market.TickSource
	log     *slog.Logger
}

func New(account market.Currency, prices market.TickSource, log *slog.Logger) (*Converter, error) {
	pairs, err := NewTransitionalPairs(account)
	if err != nil {
		return nil, err
	}
	return &Converter{
		account: account,
		pairs:   pairs,
		prices:  prices,
		log:     log,
	}, nil
}

// AccountCurrency returns the currency conversions resolve to.
func (c *Converter) AccountCurrency() market.Currency { return c.account }

// LastPrice returns the latest bid price of an instrument, or NaN if the
// quote provider cannot answer. The failure is logged; there is no retry.
func (c *Converter) LastPrice(inst market.Instrument) float64 {
	tick, err := c.prices.GetTick(context.Background(), inst.Name)
	if err != nil {
		c.log.Error("cannot get price", "instrument", inst.Name, "err", err)
		return math.NaN()
	}
	return tick.Bid
}

// ConvertValue converts a value denominated in the instrument's quote
// currency into the account currency.
//
// A failed quote lookup propagates as NaN. Callers must not treat NaN as
// zero: a zeroed conversion would silently corrupt position sizing.
func (c *Converter) ConvertValue(inst market.Instrument, value float64) float64 {
	switch {
	case inst.Quote == c.account:
		// Quote leg is the account currency, value already converted.
		return value
	case inst.Base == c.account:
		return value / c.LastPrice(inst)
	}

	transitional, ok := c.pairs[inst.Quote]
	if !ok {
		c.log.Error("no transitional pair", "currency", string(inst.Quote))
		return math.NaN()
	}
	price := c.LastPrice(transitional)
	if transitional.Quote == c.account {
		return value * price
	}
	return value / price
}

// ConvertPipValue returns the account-currency value of a one-pip move of the
// instrument, per unit of base currency.
func (c *Converter) ConvertPipValue(inst market.Instrument) float64 {
	return c.ConvertValue(inst, inst.PipValue())
}
