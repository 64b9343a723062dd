package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickStore(t *testing.T) {
	t.Parallel()

	store := NewTickStore()
	_, err := store.GetTick(context.Background(), "EUR_USD")
	assert.Error(t, err)

	tick := Tick{Instrument: "EUR_USD", Time: time.Now(), Bid: 1.0849, Ask: 1.0851}
	store.Set(tick)

	got, err := store.GetTick(context.Background(), "EUR_USD")
	require.NoError(t, err)
	assert.Equal(t, tick, got)
	assert.InDelta(t, 1.0850, got.Mid(), 1e-9)
	assert.InDelta(t, 0.0002, got.Spread(), 1e-9)
}
