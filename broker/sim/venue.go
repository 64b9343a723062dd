// Package sim is an in-memory venue used by tests and the demo runner. It
// models the asynchronous order lifecycle (created, opened, filled, closed)
// with per-order update notification and realized pip P/L, without any
// margin accounting.
package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quantfx/fxrisk/broker"
	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
)

var (
	ErrSubmitRejected = errors.New("sim: submit rejected")
	ErrAmendRejected  = errors.New("sim: amendment rejected")
	ErrCloseRejected  = errors.New("sim: close rejected")
)

// Venue implements broker.Broker in memory.
type Venue struct {
	mu     sync.Mutex
	acct   broker.Account
	ticks  *market.TickStore
	orders []*Order
	subs   map[string]market.Instrument

	rejectSubmits bool
	rejectAmends  bool
	rejectCloses  bool
	holdFills     bool
}

func New(acct broker.Account) *Venue {
	return &Venue{
		acct:  acct,
		ticks: market.NewTickStore(),
		subs:  make(map[string]market.Instrument),
	}
}

// SetTick publishes a quote.
func (v *Venue) SetTick(t market.Tick) {
	v.ticks.Set(t)
}

func (v *Venue) GetTick(ctx context.Context, instrument string) (market.Tick, error) {
	return v.ticks.GetTick(ctx, instrument)
}

func (v *Venue) Account(ctx context.Context) (broker.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.acct, nil
}

// SetAccount replaces the account snapshot, as a venue account event would.
func (v *Venue) SetAccount(acct broker.Account) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.acct = acct
}

// RejectSubmits makes subsequent submissions fail, to exercise the
// rejection path.
func (v *Venue) RejectSubmits(reject bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejectSubmits = reject
}

// RejectAmends makes subsequent stop-loss amendments fail.
func (v *Venue) RejectAmends(reject bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejectAmends = reject
}

// RejectCloses makes subsequent closes fail.
func (v *Venue) RejectCloses(reject bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejectCloses = reject
}

// HoldFills keeps market orders in the created state until FillAll is
// called, so callers can exercise state polling.
func (v *Venue) HoldFills(hold bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.holdFills = hold
}

func (v *Venue) Submit(ctx context.Context, t order.Ticket) (broker.Order, error) {
	v.mu.Lock()
	rejected := v.rejectSubmits
	hold := v.holdFills
	v.mu.Unlock()
	if rejected {
		return nil, ErrSubmitRejected
	}

	o := &Order{
		venue:      v,
		label:      t.Label(),
		instrument: t.Instrument(),
		command:    t.Command(),
		requested:  t.Amount(),
		amount:     t.Amount(),
		stopLoss:   t.StopLoss(),
		takeProfit: t.TakeProfit(),
		comment:    t.Comment(),
		created:    time.Now(),
		state:      broker.Created,
		update:     make(chan struct{}),
	}

	switch t.Command() {
	case order.Buy, order.Sell:
		if !hold {
			tick, err := v.ticks.GetTick(ctx, t.Instrument().Name)
			if err != nil {
				return nil, err
			}
			o.openPrice = tick.Ask
			if !t.Command().IsLong() {
				o.openPrice = tick.Bid
			}
			o.filled = o.created
			o.state = broker.Filled
		}
	default:
		// Pending orders rest on the book.
		o.state = broker.Opened
	}

	v.mu.Lock()
	v.orders = append(v.orders, o)
	v.mu.Unlock()
	return o, nil
}

// FillAll transitions held orders to filled at the current tick.
func (v *Venue) FillAll() {
	v.mu.Lock()
	orders := make([]*Order, len(v.orders))
	copy(orders, v.orders)
	v.mu.Unlock()

	for _, o := range orders {
		o.fill()
	}
}

func (v *Venue) Orders(ctx context.Context, instrument string) ([]broker.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]broker.Order, 0, len(v.orders))
	for _, o := range v.orders {
		if instrument != "" && o.instrument.Name != instrument {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (v *Venue) SubscribedInstruments() []market.Instrument {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]market.Instrument, 0, len(v.subs))
	for _, inst := range v.subs {
		out = append(out, inst)
	}
	return out
}

func (v *Venue) SetSubscribedInstruments(set []market.Instrument) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.subs = make(map[string]market.Instrument, len(set))
	for _, inst := range set {
		v.subs[inst.Name] = inst
	}
	return nil
}
