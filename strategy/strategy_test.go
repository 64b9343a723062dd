package strategy

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/broker/sim"
	"github.com/quantfx/fxrisk/convert"
	"github.com/quantfx/fxrisk/exec"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
	"github.com/quantfx/fxrisk/risk"
)

func newEnv(t *testing.T) (Env, *sim.Venue) {
	t.Helper()

	v := sim.New(broker.Account{ID: "SIM-001", Currency: market.USD, Balance: 10000, Equity: 10000})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conv, err := convert.New(market.USD, v, log)
	require.NoError(t, err)

	tracker := risk.NewTracker(market.USD)
	tracker.UpdateEquity(10000)

	return Env{
		Broker:    v,
		Converter: conv,
		Tracker:   tracker,
		Exec:      exec.New(v, log),
		Labels:    order.NewLabeller("tst"),
		Log:       log,
	}, v
}

// stubStrategy records which callbacks fired.
type stubStrategy struct {
	started   bool
	stopped   bool
	ticks     int
	equities  []float64
	drawdowns []float64
}

func (s *stubStrategy) OnStart(context.Context, Env) error { s.started = true; return nil }
func (s *stubStrategy) OnStop(context.Context, Env) error  { s.stopped = true; return nil }

func (s *stubStrategy) OnTick(_ context.Context, _ Env, _ market.Tick) error {
	s.ticks++
	return nil
}

func (s *stubStrategy) OnAccount(_ context.Context, env Env, acct broker.Account) error {
	s.equities = append(s.equities, acct.Equity)
	s.drawdowns = append(s.drawdowns, env.Tracker.Drawdown())
	return nil
}

func TestRunner_UpdatesTrackerBeforeOnAccount(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	strat := &stubStrategy{}
	runner := NewRunner(env, strat)

	ticks := make(chan market.Tick)
	accounts := make(chan broker.Account, 2)
	accounts <- broker.Account{Equity: 12000}
	accounts <- broker.Account{Equity: 11000}

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), ticks, accounts)
	}()

	// Closing the tick channel ends the run after the queued account
	// events drain.
	time.Sleep(50 * time.Millisecond)
	close(ticks)
	require.NoError(t, <-done)

	assert.True(t, strat.started)
	assert.True(t, strat.stopped)
	require.Len(t, strat.drawdowns, 2)
	assert.InDelta(t, 0, strat.drawdowns[0], 1e-9)
	assert.InDelta(t, 1-11000.0/12000.0, strat.drawdowns[1], 1e-9,
		"tracker must reflect the event before the callback sees it")
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	strat := &stubStrategy{}
	runner := NewRunner(env, strat)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, make(chan market.Tick), make(chan broker.Account))
	}()

	cancel()
	require.NoError(t, <-done)
	assert.True(t, strat.stopped)
}

func feedTicks(t *testing.T, env Env, v *sim.Venue, s *Sample, mids []float64) {
	t.Helper()
	now := time.Now()
	for i, mid := range mids {
		tick := market.Tick{
			Instrument: "EUR_USD",
			Time:       now.Add(time.Duration(i) * time.Second),
			Bid:        mid - 0.0001,
			Ask:        mid + 0.0001,
		}
		v.SetTick(tick)
		require.NoError(t, s.OnTick(context.Background(), env, tick))
	}
}

func TestSample_EntersOnCross(t *testing.T) {
	t.Parallel()

	env, v := newEnv(t)
	s := NewSample(SampleConfig{
		Instrument:    market.Instruments["EUR_USD"],
		RiskFraction:  0.01,
		MaxDrawdown:   0.2,
		StopPips:      20,
		TrailStepPips: 15,
		FastPeriod:    2,
		SlowPeriod:    3,
	})
	require.NoError(t, s.OnStart(context.Background(), env))

	// Downtrend to warm up with a negative diff, then a sharp rise to
	// cross the fast average above the slow one.
	feedTicks(t, env, v, s, []float64{1.0900, 1.0880, 1.0860, 1.0840, 1.0820, 1.0900, 1.0950})

	assert.Eventually(t, func() bool {
		orders, err := v.Orders(context.Background(), "EUR_USD")
		require.NoError(t, err)
		return len(orders) == 1 && orders[0].State() == broker.Filled
	}, time.Second, 5*time.Millisecond)

	orders, err := v.Orders(context.Background(), "EUR_USD")
	require.NoError(t, err)
	ord := orders[0]
	assert.True(t, ord.IsLong())
	assert.Greater(t, ord.Amount(), 0.0)
	assert.Less(t, ord.StopLossPrice(), ord.OpenPrice())
}

func TestSample_HaltsOnMaxDrawdown(t *testing.T) {
	t.Parallel()

	env, _ := newEnv(t)
	s := NewSample(SampleConfig{
		Instrument:    market.Instruments["EUR_USD"],
		RiskFraction:  0.01,
		MaxDrawdown:   0.10,
		StopPips:      20,
		TrailStepPips: 15,
	})

	env.Tracker.UpdateEquity(10000)
	require.NoError(t, s.OnAccount(context.Background(), env, broker.Account{Equity: 10000}))
	assert.False(t, s.halted)

	env.Tracker.UpdateEquity(8500)
	require.NoError(t, s.OnAccount(context.Background(), env, broker.Account{Equity: 8500}))
	assert.True(t, s.halted, "15% drawdown must trip the 10% breaker")
}
