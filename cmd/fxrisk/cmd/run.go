package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/broker/sim"
	"github.com/quantfx/fxrisk/config"
	"github.com/quantfx/fxrisk/convert"
	"github.com/quantfx/fxrisk/exec"
	"github.com/quantfx/fxrisk/journal"
	"github.com/quantfx/fxrisk/logging"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
	"github.com/quantfx/fxrisk/risk"
	"github.com/quantfx/fxrisk/strategy"
)

var (
	runConfigPath string
	runTickCount  int
	runSeed       int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sample strategy against the in-memory venue",
	Long: `Runs the sample EMA-cross strategy against the simulated venue with a
scripted price walk, then journals the resulting order history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if runConfigPath != "" {
			loaded, err := config.Load(runConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "config file (YAML or JSON)")
	runCmd.Flags().IntVarP(&runTickCount, "ticks", "n", 500, "number of simulated ticks")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "price walk seed")
	rootCmd.AddCommand(runCmd)
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Logging.Level, cfg.Logging.Dir)

	inst := market.Instruments[cfg.Strategy.Instrument]
	acct := broker.Account{
		ID:       cfg.Account.ID,
		Currency: market.Currency(cfg.Account.Currency),
		Balance:  cfg.Account.Balance,
		Equity:   cfg.Account.Balance,
	}

	venue := sim.New(acct)
	conv, err := convert.New(acct.Currency, venue, log)
	if err != nil {
		return err
	}

	env := strategy.Env{
		Broker:    venue,
		Converter: conv,
		Tracker:   risk.NewTracker(acct.Currency),
		Exec:      exec.New(venue, log),
		Labels:    order.NewLabeller(cfg.Strategy.Tag),
		Log:       log,
	}

	sample := strategy.NewSample(strategy.SampleConfig{
		Instrument:    inst,
		RiskFraction:  cfg.Risk.RiskFraction,
		MaxDrawdown:   cfg.Risk.MaxDrawdown,
		StopPips:      cfg.Risk.StopPips,
		TrailStepPips: cfg.Risk.TrailStepPips,
		Parts:         cfg.Risk.Parts,
	})

	ticks := make(chan market.Tick)
	accounts := make(chan broker.Account, 1)
	accounts <- acct

	go func() {
		defer close(ticks)
		walk := rand.New(rand.NewSource(runSeed))
		mid := 1.0850
		spread := 2 * inst.PipValue()
		now := time.Now()
		for i := 0; i < runTickCount; i++ {
			mid += (walk.Float64() - 0.5) * 10 * inst.PipValue()
			tick := market.Tick{
				Instrument: inst.Name,
				Time:       now.Add(time.Duration(i) * time.Second),
				Bid:        market.RoundPrice(inst, mid-spread/2),
				Ask:        market.RoundPrice(inst, mid+spread/2),
			}
			venue.SetTick(tick)
			select {
			case ticks <- tick:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := strategy.NewRunner(env, sample).Run(ctx, ticks, accounts); err != nil {
		return err
	}

	// Give in-flight submissions a moment to land before journaling.
	time.Sleep(200 * time.Millisecond)
	return journalOrders(ctx, cfg, venue, log)
}

func journalOrders(ctx context.Context, cfg *config.Config, venue *sim.Venue, log *slog.Logger) error {
	orders, err := venue.Orders(ctx, "")
	if err != nil {
		return err
	}

	var j journal.Journal
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	default:
		j, err = journal.NewCSV(cfg.Journal.OrdersFile)
	}
	if err != nil {
		return err
	}
	defer j.Close()

	records := journal.Snapshot(orders)
	for _, r := range records {
		if err := j.RecordOrder(r); err != nil {
			return fmt.Errorf("journal order %s: %w", r.Label, err)
		}
	}
	log.Info("journaled order history", "orders", len(records))
	return nil
}
