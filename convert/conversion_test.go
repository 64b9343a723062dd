package convert

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/fxrisk/market"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newConverter(t *testing.T, account market.Currency, ticks *market.TickStore) *Converter {
	t.Helper()
	c, err := New(account, ticks, discard())
	require.NoError(t, err)
	return c
}

func TestConvertValue_QuoteIsAccountCurrency(t *testing.T) {
	t.Parallel()

	ticks := market.NewTickStore()
	c := newConverter(t, market.USD, ticks)

	eurusd := market.Instruments["EUR_USD"]
	for _, v := range []float64{0, 0.0001, 1, 123.456} {
		assert.Equal(t, v, c.ConvertValue(eurusd, v))
	}
}

func TestConvertValue_BaseIsAccountCurrency(t *testing.T) {
	t.Parallel()

	ticks := market.NewTickStore()
	ticks.Set(market.Tick{Instrument: "USD_JPY", Bid: 110.00, Ask: 110.02})
	c := newConverter(t, market.USD, ticks)

	usdjpy := market.Instruments["USD_JPY"]
	assert.InDelta(t, 50.0/110.00, c.ConvertValue(usdjpy, 50.0), 1e-12)
}

func TestConvertValue_TransitionalDivide(t *testing.T) {
	t.Parallel()

	// EUR_JPY with a USD account: neither leg is USD. The transitional pair
	// for JPY is USD_JPY, whose quote currency is JPY, not USD, so the value
	// is divided by the transitional price.
	ticks := market.NewTickStore()
	ticks.Set(market.Tick{Instrument: "USD_JPY", Bid: 110.00, Ask: 110.02})
	c := newConverter(t, market.USD, ticks)

	eurjpy := market.Instruments["EUR_JPY"]
	assert.InDelta(t, 0.01/110.00, c.ConvertPipValue(eurjpy), 1e-12)
}

func TestConvertValue_TransitionalMultiply(t *testing.T) {
	t.Parallel()

	// AUD_NZD with a USD account: the transitional pair for NZD is NZD_USD,
	// whose quote currency is USD, so the value is multiplied.
	ticks := market.NewTickStore()
	ticks.Set(market.Tick{Instrument: "NZD_USD", Bid: 0.6100, Ask: 0.6102})
	c := newConverter(t, market.USD, ticks)

	audnzd := market.Instruments["AUD_NZD"]
	assert.InDelta(t, 0.0001*0.6100, c.ConvertPipValue(audnzd), 1e-12)
}

func TestConvertValue_QuoteFailurePropagatesNaN(t *testing.T) {
	t.Parallel()

	// Empty tick store: every lookup fails.
	c := newConverter(t, market.USD, market.NewTickStore())

	usdjpy := market.Instruments["USD_JPY"]
	eurjpy := market.Instruments["EUR_JPY"]

	assert.True(t, math.IsNaN(c.ConvertValue(usdjpy, 10)))
	assert.True(t, math.IsNaN(c.ConvertValue(eurjpy, 10)))
	assert.True(t, math.IsNaN(c.LastPrice(usdjpy)))
}

func TestConvertPipValue_DirectPair(t *testing.T) {
	t.Parallel()

	ticks := market.NewTickStore()
	c := newConverter(t, market.USD, ticks)

	assert.InDelta(t, 0.0001, c.ConvertPipValue(market.Instruments["EUR_USD"]), 1e-12)
}
