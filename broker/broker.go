// Package broker defines the venue boundary: order submission, order state,
// account queries and quote subscriptions. Implementations own all venue-side
// state; callers only hold Order references.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfx/fxrisk/market"
	"github.com/quantfx/fxrisk/order"
)

// OrderState is the venue-side lifecycle of an order.
type OrderState int

const (
	Created OrderState = iota
	Opened
	Filled
	Closed
	Canceled
)

var stateNames = map[OrderState]string{
	Created:  "CREATED",
	Opened:   "OPENED",
	Filled:   "FILLED",
	Closed:   "CLOSED",
	Canceled: "CANCELED",
}

func (s OrderState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("OrderState(%d)", int(s))
}

// Active reports whether the order is live on the venue (open or filled).
func (s OrderState) Active() bool {
	return s == Opened || s == Filled
}

// OfferSide selects the quote side a stop order triggers against.
type OfferSide int

const (
	Bid OfferSide = iota
	Ask
)

func (s OfferSide) String() string {
	if s == Bid {
		return "BID"
	}
	return "ASK"
}

// Order is a venue order reference. State changes happen asynchronously on
// the venue; WaitForUpdate blocks until the next change or the timeout,
// whichever comes first, and returns the state seen afterwards.
type Order interface {
	Label() string
	Instrument() market.Instrument
	Command() order.Command
	IsLong() bool
	Amount() float64
	RequestedAmount() float64
	OpenPrice() float64
	StopLossPrice() float64
	TakeProfitPrice() float64
	TrailingStep() float64
	State() OrderState
	Comment() string
	CreationTime() time.Time
	FillTime() time.Time
	ClosePrice() float64
	CloseTime() time.Time
	// ProfitLossPips is the realized open-to-close move in pips, signed by
	// direction. Zero until the order closes.
	ProfitLossPips() float64

	WaitForUpdate(timeout time.Duration) OrderState
	SetStopLoss(price float64, side OfferSide, trailStep float64) error
	Close(amount float64) error // amount 0 closes the full position
}

// Account is a point-in-time account snapshot.
type Account struct {
	ID       string
	Currency market.Currency
	Balance  float64
	Equity   float64
}

// Broker is the venue connection consumed by the execution coordinator and
// the conversion engine.
type Broker interface {
	market.TickSource

	Submit(ctx context.Context, ticket order.Ticket) (Order, error)
	Account(ctx context.Context) (Account, error)
	// Orders returns venue orders, optionally filtered by instrument name
	// (empty means all).
	Orders(ctx context.Context, instrument string) ([]Order, error)

	SubscribedInstruments() []market.Instrument
	SetSubscribedInstruments([]market.Instrument) error
}
