// Package strategy defines the lifecycle shell a trading strategy plugs into
// and the runner that drives it from venue events.
package strategy

import (
	"context"
	"log/slog"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/convert"
	"github.com/quantfx/fxrisk/exec"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
	"github.com/quantfx/fxrisk/risk"
)

// Env bundles the collaborators a strategy works against.
type Env struct {
	Broker    broker.Broker
	Converter *convert.Converter
	Tracker   *risk.Tracker
	Exec      *exec.Coordinator
	Labels    *order.Labeller
	Log       *slog.Logger
}

// Strategy receives venue lifecycle events. Callbacks run on the single
// runner goroutine and must return quickly; venue round-trips belong on the
// coordinator's workers.
type Strategy interface {
	OnStart(ctx context.Context, env Env) error
	OnTick(ctx context.Context, env Env, tick market.Tick) error
	OnAccount(ctx context.Context, env Env, acct broker.Account) error
	OnStop(ctx context.Context, env Env) error
}

// Runner drives a strategy from tick and account event channels. Equity is
// pushed into the tracker before OnAccount fires, so drawdown queries inside
// the callback see the latest observation.
type Runner struct {
	env   Env
	strat Strategy
}

func NewRunner(env Env, strat Strategy) *Runner {
	return &Runner{env: env, strat: strat}
}

// Run consumes events until the context is cancelled or the tick channel
// closes, then invokes OnStop.
func (r *Runner) Run(ctx context.Context, ticks <-chan market.Tick, accounts <-chan broker.Account) error {
	if err := r.strat.OnStart(ctx, r.env); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return r.strat.OnStop(context.WithoutCancel(ctx), r.env)
		case tick, ok := <-ticks:
			if !ok {
				return r.strat.OnStop(ctx, r.env)
			}
			if err := r.strat.OnTick(ctx, r.env, tick); err != nil {
				return err
			}
		case acct, ok := <-accounts:
			if !ok {
				accounts = nil
				continue
			}
			r.env.Tracker.UpdateEquity(acct.Equity)
			if err := r.strat.OnAccount(ctx, r.env, acct); err != nil {
				return err
			}
		}
	}
}
