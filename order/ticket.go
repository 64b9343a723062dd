// Package order holds the immutable order ticket, its staged builder, and
// order label generation.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantfx/fxrisk/market"
)

// Command is the venue order type.
type Command int

const (
	Buy Command = iota
	Sell
	BuyLimit
	SellLimit
	BuyStop
	SellStop
	PlaceBid
	PlaceOffer
)

var commandNames = map[Command]string{
	Buy:        "BUY",
	Sell:       "SELL",
	BuyLimit:   "BUY_LIMIT",
	SellLimit:  "SELL_LIMIT",
	BuyStop:    "BUY_STOP",
	SellStop:   "SELL_STOP",
	PlaceBid:   "PLACE_BID",
	PlaceOffer: "PLACE_OFFER",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// IsLong reports whether the command opens a long position.
func (c Command) IsLong() bool {
	switch c {
	case Buy, BuyLimit, BuyStop, PlaceBid:
		return true
	}
	return false
}

var (
	ErrNoLabel     = errors.New("order label must not be empty")
	ErrAmountRange = errors.New("order amount must be positive")
)

// DefaultSlippage is applied when the builder is not given a slippage, in pips.
const DefaultSlippage = 5.0

// Ticket is an immutable order request. All price fields are rounded to the
// instrument's tenth-pip precision and the amount floored to the minimum
// tradable increment at build time. A zero stop or target means "none"; the
// venue interprets the sentinel.
type Ticket struct {
	label      string
	instrument market.Instrument
	command    Command
	amount     float64
	price      float64
	slippage   float64
	stopLoss   float64
	takeProfit float64
	goodTill   time.Time
	comment    string
}

func (t Ticket) Label() string                 { return t.label }
func (t Ticket) Instrument() market.Instrument { return t.instrument }
func (t Ticket) Command() Command              { return t.command }
func (t Ticket) Amount() float64               { return t.amount }
func (t Ticket) Price() float64                { return t.price }
func (t Ticket) Slippage() float64             { return t.slippage }
func (t Ticket) StopLoss() float64             { return t.stopLoss }
func (t Ticket) TakeProfit() float64           { return t.takeProfit }
func (t Ticket) GoodTill() time.Time           { return t.goodTill }
func (t Ticket) Comment() string               { return t.comment }

// Builder accumulates optional ticket fields before a single Build call.
//
//	ticket, err := order.NewBuilder(label, inst, order.Buy, 0.01).
//		StopLoss(1.0800).
//		TakeProfit(1.0950).
//		Build()
type Builder struct {
	ticket Ticket
}

// NewBuilder starts a ticket with the required fields. Optional fields
// default to: price 0 (market), slippage 5 pips, stop/target 0 (none),
// good-till zero time (good till cancelled), empty comment.
func NewBuilder(label string, inst market.Instrument, cmd Command, amount float64) *Builder {
	return &Builder{ticket: Ticket{
		label:      label,
		instrument: inst,
		command:    cmd,
		amount:     amount,
		slippage:   DefaultSlippage,
	}}
}

// Price sets the preferred order price. Zero means the current market price.
func (b *Builder) Price(price float64) *Builder {
	b.ticket.price = price
	return b
}

// Slippage sets the tolerated slippage in pips (1 means one pip, not 0.0001).
func (b *Builder) Slippage(pips float64) *Builder {
	b.ticket.slippage = pips
	return b
}

// StopLoss sets the stop-loss price. Zero means no stop.
func (b *Builder) StopLoss(price float64) *Builder {
	b.ticket.stopLoss = price
	return b
}

// TakeProfit sets the take-profit price. Zero means no target.
func (b *Builder) TakeProfit(price float64) *Builder {
	b.ticket.takeProfit = price
	return b
}

// GoodTill sets how long a pending order lives if not executed. Only
// meaningful for PlaceBid/PlaceOffer commands.
func (b *Builder) GoodTill(t time.Time) *Builder {
	b.ticket.goodTill = t
	return b
}

// Comment attaches a free-form comment saved with the order.
func (b *Builder) Comment(comment string) *Builder {
	b.ticket.comment = comment
	return b
}

// Build validates the required fields, normalizes amount and prices, and
// returns the immutable ticket.
func (b *Builder) Build() (Ticket, error) {
	t := b.ticket
	if t.label == "" {
		return Ticket{}, ErrNoLabel
	}
	if t.amount <= 0 {
		return Ticket{}, fmt.Errorf("%w: got %v", ErrAmountRange, t.amount)
	}

	t.amount = market.RoundLot(t.amount)
	t.price = market.RoundPrice(t.instrument, t.price)
	t.stopLoss = market.RoundPrice(t.instrument, t.stopLoss)
	t.takeProfit = market.RoundPrice(t.instrument, t.takeProfit)
	return t, nil
}
