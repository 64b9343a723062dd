package strategy

import (
	"context"
	"math"
	"time"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/exec"
	"github.com/quantfx/fxrisk/indicators"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
)

// SampleConfig parameterizes the sample EMA-cross strategy.
type SampleConfig struct {
	Instrument    market.Instrument
	RiskFraction  float64
	MaxDrawdown   float64
	StopPips      float64
	TrailStepPips float64
	Parts         int
	FastPeriod    int
	SlowPeriod    int
}

// Sample is a minimal EMA-cross strategy wired through the risk sizer and
// the execution coordinator. One position at a time; stops are the wider of
// a fixed pip distance and the current ATR; trailing is armed after entry.
type Sample struct {
	cfg SampleConfig

	fast *indicators.EMA
	slow *indicators.EMA
	atr  *indicators.ATR

	lastDiff float64
	open     *exec.Handle
	halted   bool
}

func NewSample(cfg SampleConfig) *Sample {
	if cfg.FastPeriod == 0 {
		cfg.FastPeriod = 20
	}
	if cfg.SlowPeriod == 0 {
		cfg.SlowPeriod = 50
	}
	if cfg.Parts == 0 {
		cfg.Parts = 1
	}
	return &Sample{
		cfg:      cfg,
		fast:     indicators.NewEMA(cfg.FastPeriod),
		slow:     indicators.NewEMA(cfg.SlowPeriod),
		atr:      indicators.NewATR(cfg.SlowPeriod),
		lastDiff: math.NaN(),
	}
}

func (s *Sample) OnStart(ctx context.Context, env Env) error {
	return env.Converter.EnsureTransitionalCoverage(env.Broker, []market.Instrument{s.cfg.Instrument})
}

func (s *Sample) OnTick(ctx context.Context, env Env, tick market.Tick) error {
	if tick.Instrument != s.cfg.Instrument.Name || s.halted {
		return nil
	}

	c := market.Candle{
		Time:  tick.Time,
		Open:  tick.Mid(),
		High:  tick.Ask,
		Low:   tick.Bid,
		Close: tick.Mid(),
	}
	s.fast.Update(c)
	s.slow.Update(c)
	s.atr.Update(c)
	if !s.fast.Ready() || !s.slow.Ready() || !s.atr.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()
	prev := s.lastDiff
	s.lastDiff = diff
	if math.IsNaN(prev) || s.hasOpenOrder() {
		return nil
	}

	switch {
	case prev <= 0 && diff > 0:
		return s.enter(env, tick, order.Buy)
	case prev >= 0 && diff < 0:
		return s.enter(env, tick, order.Sell)
	}
	return nil
}

func (s *Sample) enter(env Env, tick market.Tick, cmd order.Command) error {
	inst := s.cfg.Instrument
	stopDistance := math.Max(s.cfg.StopPips*inst.PipValue(), s.atr.Value())

	lot, err := env.Tracker.SuggestedPartLot(env.Converter, inst, s.cfg.RiskFraction, stopDistance, s.cfg.Parts)
	if err != nil {
		return err
	}
	if math.IsNaN(lot) || lot < inst.MinTradeSize {
		env.Log.Warn("skipping entry, unusable lot size",
			"instrument", inst.Name, "lot", lot)
		return nil
	}

	entry := tick.Ask
	stop := entry - stopDistance
	if cmd == order.Sell {
		entry = tick.Bid
		stop = entry + stopDistance
	}

	ticket, err := order.NewBuilder(env.Labels.Next(tick.Time), inst, cmd, lot).
		StopLoss(stop).
		Comment("ema cross").
		Build()
	if err != nil {
		return err
	}

	h := env.Exec.Submit(ticket)
	env.Exec.ActivateTrailingStop(h, s.cfg.TrailStepPips)
	s.open = h
	env.Log.Info("submitted entry",
		"label", ticket.Label(), "command", cmd.String(), "lot", lot, "stop", stop)
	return nil
}

// hasOpenOrder reports whether the last submission is still working. A
// handle that resolved to no order, or to a closed order, frees the slot.
func (s *Sample) hasOpenOrder() bool {
	if s.open == nil {
		return false
	}
	select {
	case <-s.open.Done():
	default:
		return true // submission still in flight
	}
	ord, ok := s.open.Wait()
	if !ok || ord.State() == broker.Closed || ord.State() == broker.Canceled {
		s.open = nil
		return false
	}
	return true
}

func (s *Sample) OnAccount(ctx context.Context, env Env, acct broker.Account) error {
	broken, err := env.Tracker.IsMaxDrawdownBroken(s.cfg.MaxDrawdown)
	if err != nil {
		return err
	}
	if !broken || s.halted {
		return nil
	}

	s.halted = true
	env.Log.Error("max drawdown broken, halting",
		"equity", acct.Equity, "drawdown", env.Tracker.Drawdown())

	if s.hasOpenOrder() {
		if ord, ok := s.open.Wait(); ok {
			return env.Exec.Close(ord, 1)
		}
	}
	return nil
}

func (s *Sample) OnStop(ctx context.Context, env Env) error {
	if s.open == nil {
		return nil
	}
	// Bounded wait so shutdown cannot hang on a dead venue.
	select {
	case <-s.open.Done():
	case <-time.After(time.Second):
	}
	return nil
}
