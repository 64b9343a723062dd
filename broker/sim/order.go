package sim

import (
	"context"
	"sync"
	"time"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
)

// Order is a sim venue order. The update channel is closed and replaced on
// every state or field change, broadcasting to all waiters.
type Order struct {
	venue *Venue

	mu         sync.Mutex
	update     chan struct{}
	label      string
	instrument market.Instrument
	command    order.Command
	requested  float64
	amount     float64
	openPrice  float64
	stopLoss   float64
	takeProfit float64
	trailStep  float64
	amendSide  broker.OfferSide
	state      broker.OrderState
	comment    string
	created    time.Time
	filled     time.Time
	closePrice float64
	closed     time.Time
}

func (o *Order) Label() string                 { o.mu.Lock(); defer o.mu.Unlock(); return o.label }
func (o *Order) Instrument() market.Instrument { o.mu.Lock(); defer o.mu.Unlock(); return o.instrument }
func (o *Order) Command() order.Command        { o.mu.Lock(); defer o.mu.Unlock(); return o.command }
func (o *Order) IsLong() bool                  { o.mu.Lock(); defer o.mu.Unlock(); return o.command.IsLong() }
func (o *Order) Amount() float64               { o.mu.Lock(); defer o.mu.Unlock(); return o.amount }
func (o *Order) RequestedAmount() float64      { o.mu.Lock(); defer o.mu.Unlock(); return o.requested }
func (o *Order) OpenPrice() float64            { o.mu.Lock(); defer o.mu.Unlock(); return o.openPrice }
func (o *Order) StopLossPrice() float64        { o.mu.Lock(); defer o.mu.Unlock(); return o.stopLoss }
func (o *Order) TakeProfitPrice() float64      { o.mu.Lock(); defer o.mu.Unlock(); return o.takeProfit }
func (o *Order) TrailingStep() float64         { o.mu.Lock(); defer o.mu.Unlock(); return o.trailStep }
func (o *Order) State() broker.OrderState      { o.mu.Lock(); defer o.mu.Unlock(); return o.state }
func (o *Order) Comment() string               { o.mu.Lock(); defer o.mu.Unlock(); return o.comment }
func (o *Order) CreationTime() time.Time       { o.mu.Lock(); defer o.mu.Unlock(); return o.created }
func (o *Order) FillTime() time.Time           { o.mu.Lock(); defer o.mu.Unlock(); return o.filled }
func (o *Order) ClosePrice() float64           { o.mu.Lock(); defer o.mu.Unlock(); return o.closePrice }
func (o *Order) CloseTime() time.Time          { o.mu.Lock(); defer o.mu.Unlock(); return o.closed }

// ProfitLossPips returns the realized open-to-close move in pips, signed by
// direction. Zero until the order closes.
func (o *Order) ProfitLossPips() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.openPrice == 0 || o.closePrice == 0 {
		return 0
	}
	pips := (o.closePrice - o.openPrice) / o.instrument.PipValue()
	if !o.command.IsLong() {
		pips = -pips
	}
	return pips
}

// LastAmendSide reports the offer side of the most recent stop amendment.
func (o *Order) LastAmendSide() broker.OfferSide {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.amendSide
}

// WaitForUpdate blocks until the order changes or the timeout elapses, and
// returns the state observed afterwards.
func (o *Order) WaitForUpdate(timeout time.Duration) broker.OrderState {
	o.mu.Lock()
	ch := o.update
	o.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
	}
	return o.State()
}

func (o *Order) SetStopLoss(price float64, side broker.OfferSide, trailStep float64) error {
	o.venue.mu.Lock()
	rejected := o.venue.rejectAmends
	o.venue.mu.Unlock()
	if rejected {
		return ErrAmendRejected
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLoss = price
	o.trailStep = trailStep
	o.amendSide = side
	o.notifyLocked()
	return nil
}

func (o *Order) Close(amount float64) error {
	o.venue.mu.Lock()
	rejected := o.venue.rejectCloses
	o.venue.mu.Unlock()
	if rejected {
		return ErrCloseRejected
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if amount <= 0 || amount >= o.amount {
		o.amount = 0
		o.state = broker.Closed
		o.closed = time.Now()
		// Positions close against the opposite quote side.
		if tick, err := o.venue.ticks.GetTick(context.Background(), o.instrument.Name); err == nil {
			o.closePrice = tick.Bid
			if !o.command.IsLong() {
				o.closePrice = tick.Ask
			}
		}
	} else {
		o.amount -= amount
	}
	o.notifyLocked()
	return nil
}

func (o *Order) fill() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != broker.Created {
		return
	}
	tick, err := o.venue.ticks.GetTick(context.Background(), o.instrument.Name)
	if err == nil {
		o.openPrice = tick.Ask
		if !o.command.IsLong() {
			o.openPrice = tick.Bid
		}
	}
	o.filled = time.Now()
	o.state = broker.Filled
	o.notifyLocked()
}

// notifyLocked wakes all current waiters. Caller holds o.mu.
func (o *Order) notifyLocked() {
	close(o.update)
	o.update = make(chan struct{})
}
