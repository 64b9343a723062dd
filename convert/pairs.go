package convert

import (
	"fmt"

	"github.com/quantfx/fxrisk/market"
)

// Subscriber is the venue's quote-subscription surface.
type Subscriber interface {
	SubscribedInstruments() []market.Instrument
	SetSubscribedInstruments([]market.Instrument) error
}

// NewTransitionalPairs maps every major currency other than the account
// currency to the canonical instrument pairing it with the account currency.
// Built once per account currency; read-only thereafter.
func NewTransitionalPairs(account market.Currency) (map[market.Currency]market.Instrument, error) {
	pairs := make(map[market.Currency]market.Instrument, len(market.Majors)-1)
	for _, cur := range market.Majors {
		if cur == account {
			continue
		}
		inst, err := market.Pair(cur, account)
		if err != nil {
			return nil, fmt.Errorf("transitional pair for %s: %w", cur, err)
		}
		pairs[cur] = inst
	}
	return pairs, nil
}

// EnsureTransitionalCoverage adds, for every instrument whose legs both
// differ from the account currency, the transitional instrument needed for
// conversion to the venue's quote subscriptions. The update is an idempotent
// union: existing subscriptions are never removed.
//
// Must be called before trading any instrument outside the account
// currency's direct pairs.
func (c *Converter) EnsureTransitionalCoverage(sub Subscriber, instruments []market.Instrument) error {
	set := make(map[string]market.Instrument)
	for _, inst := range sub.SubscribedInstruments() {
		set[inst.Name] = inst
	}

	for _, inst := range instruments {
		if inst.Base == c.account || inst.Quote == c.account {
			continue
		}
		transitional, ok := c.pairs[inst.Quote]
		if !ok {
			return fmt.Errorf("no transitional pair for %s quote %s", inst.Name, inst.Quote)
		}
		set[transitional.Name] = transitional
	}

	merged := make([]market.Instrument, 0, len(set))
	for _, inst := range set {
		merged = append(merged, inst)
	}
	return sub.SetSubscribedInstruments(merged)
}
