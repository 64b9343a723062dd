// Package exec submits order tickets and manages dependent stop-loss and
// trailing-stop amendments as independently scheduled units of work, keeping
// the caller's market-data path free of venue round-trips.
package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
)

// MinTrailStep is the smallest trailing step the venue accepts, in pips.
// Requests below it are dropped rather than submitted and rejected.
const MinTrailStep = 10.0

var ErrCloseFraction = errors.New("close fraction must be in (0, 1]")

// Coordinator runs venue operations asynchronously. Each submission and
// amendment is its own worker; workers block on bounded waits, callers never
// block. Venue failures resolve handles to no order and are logged with the
// order label; nothing is retried.
type Coordinator struct {
	venue broker.Broker
	log   *slog.Logger

	confirmTimeout time.Duration // stop-amendment confirmation wait
	pollInterval   time.Duration // trailing activation poll spacing
	pollAttempts   int           // trailing activation poll cap
}

func New(venue broker.Broker, log *slog.Logger) *Coordinator {
	return &Coordinator{
		venue:          venue,
		log:            log,
		confirmTimeout: time.Second,
		pollInterval:   time.Second,
		pollAttempts:   10,
	}
}

// Submit dispatches the ticket to the venue in its own worker and returns a
// handle immediately. On rejection the handle resolves to no order.
func (c *Coordinator) Submit(t order.Ticket) *Handle {
	h := newHandle()
	go func() {
		ord, err := c.venue.Submit(context.Background(), t)
		if err != nil {
			c.log.Error("cannot place order", "label", t.Label(), "err", err)
			h.resolve(nil)
			return
		}
		h.resolve(ord)
	}()
	return h
}

// AmendStopLoss moves an order's stop loss and trailing step in its own
// worker. The stop is rounded to tenth-pip precision, the trailing step to
// the nearest whole pip; the amendment side follows the position direction.
// The worker waits up to one second for venue confirmation.
func (c *Coordinator) AmendStopLoss(ord broker.Order, newStop, trailStepPips float64) *Handle {
	h := newHandle()
	go func() {
		stop := market.RoundPrice(ord.Instrument(), newStop)
		step := math.Round(trailStepPips)
		side := broker.Ask
		if ord.IsLong() {
			side = broker.Bid
		}

		if err := ord.SetStopLoss(stop, side, step); err != nil {
			c.log.Error("cannot set stop loss",
				"label", ord.Label(), "stop", stop, "trail_step", step, "err", err)
			h.resolve(nil)
			return
		}
		ord.WaitForUpdate(c.confirmTimeout)
		h.resolve(ord)
	}()
	return h
}

// ActivateTrailingStop arms trailing on the order behind h once it is live,
// keeping its current stop price. Use Resolved to pass an order directly.
//
// The worker first waits for the submission to resolve; a failed submission
// aborts with a log entry instead of dereferencing a dead handle. Requests
// below MinTrailStep, or orders that already trail, are dropped silently:
// both are venue constraints, not errors. The order's state is then polled a
// bounded number of times; if it never turns active the amendment is sent
// anyway and the venue's rejection is logged by AmendStopLoss.
func (c *Coordinator) ActivateTrailingStop(h *Handle, trailStepPips float64) {
	go func() {
		ord, ok := h.Wait()
		if !ok {
			c.log.Error("trailing stop aborted: submission resolved to no order")
			return
		}

		if trailStepPips < MinTrailStep || ord.TrailingStep() != 0 {
			return
		}

		for i := 0; i < c.pollAttempts; i++ {
			if ord.State().Active() {
				break
			}
			ord.WaitForUpdate(c.pollInterval)
		}

		// Re-issue the current stop with the trailing step: trailing is
		// activated without moving the stop.
		c.AmendStopLoss(ord, ord.StopLossPrice(), trailStepPips)
	}()
}

// Close closes fraction of the order's amount at market, best effort: venue
// failures are logged and swallowed. fraction 1 closes the full position.
func (c *Coordinator) Close(ord broker.Order, fraction float64) error {
	if fraction <= 0 || fraction > 1 {
		return fmt.Errorf("%w: got %v", ErrCloseFraction, fraction)
	}

	amount := 0.0 // full close
	if fraction != 1 {
		amount = market.RoundLot(ord.Amount() * fraction)
	}
	if err := ord.Close(amount); err != nil {
		c.log.Error("cannot close order", "label", ord.Label(), "fraction", fraction, "err", err)
	}
	return nil
}
