package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/fxrisk/market"
)

// fixedConverter converts with a constant quote-to-account factor.
type fixedConverter struct {
	factor float64
}

func (f fixedConverter) ConvertValue(_ market.Instrument, v float64) float64 {
	return v * f.factor
}

func newTracker(equity float64) *Tracker {
	tr := NewTracker(market.USD)
	tr.UpdateEquity(equity)
	return tr
}

func TestSuggestedLot_EURJPYThroughUSDJPY(t *testing.T) {
	t.Parallel()

	// USD account trading EUR_JPY with USD_JPY at 110.00: one JPY is worth
	// 1/110 USD. Equity 10,000, risking 1% with a 0.50 stop:
	// 100 / (0.50/110) = 22,000 units = 0.022 lots.
	tr := newTracker(10000)
	conv := fixedConverter{factor: 1.0 / 110.00}

	lot, err := tr.SuggestedLot(conv, market.Instruments["EUR_JPY"], 0.01, 0.50)
	require.NoError(t, err)
	assert.InDelta(t, 0.022, lot, 1e-9)
}

func TestSuggestedLot_ScalesLinearlyWithRiskFraction(t *testing.T) {
	t.Parallel()

	tr := newTracker(100000)
	conv := fixedConverter{factor: 1}
	inst := market.Instruments["EUR_USD"]

	one, err := tr.SuggestedLot(conv, inst, 0.01, 0.0050)
	require.NoError(t, err)
	two, err := tr.SuggestedLot(conv, inst, 0.02, 0.0050)
	require.NoError(t, err)
	assert.InDelta(t, 2*one, two, 1e-9)
}

func TestSuggestedLot_InverseWithStopDistance(t *testing.T) {
	t.Parallel()

	tr := newTracker(100000)
	conv := fixedConverter{factor: 1}
	inst := market.Instruments["EUR_USD"]

	narrow, err := tr.SuggestedLot(conv, inst, 0.01, 0.0050)
	require.NoError(t, err)
	wide, err := tr.SuggestedLot(conv, inst, 0.01, 0.0100)
	require.NoError(t, err)
	assert.InDelta(t, narrow/2, wide, 1e-9)

	// Sign of the stop distance is irrelevant.
	neg, err := tr.SuggestedLot(conv, inst, 0.01, -0.0050)
	require.NoError(t, err)
	assert.InDelta(t, narrow, neg, 1e-9)
}

func TestSuggestedPartLot_DividesBeforeFlooring(t *testing.T) {
	t.Parallel()

	tr := newTracker(10000)
	conv := fixedConverter{factor: 1.0 / 110.00}
	inst := market.Instruments["EUR_JPY"]

	// 0.022 lots split three ways: 0.00733... floors to 0.007 per part,
	// so the aggregate 0.021 stays below the undivided suggestion.
	part, err := tr.SuggestedPartLot(conv, inst, 0.01, 0.50, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.007, part, 1e-9)
}

func TestSuggestedLot_RejectsBadArguments(t *testing.T) {
	t.Parallel()

	tr := newTracker(10000)
	conv := fixedConverter{factor: 1}
	inst := market.Instruments["EUR_USD"]

	for _, rf := range []float64{0, -0.1, 1.5} {
		_, err := tr.SuggestedLot(conv, inst, rf, 0.0050)
		assert.ErrorIs(t, err, ErrRiskFraction)
	}

	_, err := tr.SuggestedPartLot(conv, inst, 0.01, 0.0050, 0)
	assert.ErrorIs(t, err, ErrParts)
}

func TestSuggestedLot_NaNConversionPropagates(t *testing.T) {
	t.Parallel()

	tr := newTracker(10000)
	conv := fixedConverter{factor: math.NaN()}

	lot, err := tr.SuggestedLot(conv, market.Instruments["EUR_JPY"], 0.01, 0.50)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(lot), "quote failure must not collapse to a tradable size")
}
