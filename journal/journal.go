// Package journal records venue order history for later analysis, to CSV or
// SQLite.
package journal

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quantfx/fxrisk/broker"
)

// Record is one order-history row.
type Record struct {
	ID              string
	Label           string
	Instrument      string
	IsLong          bool
	Command         string
	Amount          float64
	RequestedAmount float64
	OpenPrice       float64
	ClosePrice      float64
	StopLoss        float64
	TakeProfit      float64
	ProfitLossPips  float64
	State           string
	Comment         string
	CreationTime    time.Time
	FillTime        time.Time
	CloseTime       time.Time
}

// Journal persists order records.
type Journal interface {
	RecordOrder(Record) error
	Close() error
}

// Snapshot converts live venue orders into records, assigning each a
// time-sortable ULID.
func Snapshot(orders []broker.Order) []Record {
	records := make([]Record, 0, len(orders))
	for _, o := range orders {
		records = append(records, Record{
			ID:              ulid.Make().String(),
			Label:           o.Label(),
			Instrument:      o.Instrument().Name,
			IsLong:          o.IsLong(),
			Command:         o.Command().String(),
			Amount:          o.Amount(),
			RequestedAmount: o.RequestedAmount(),
			OpenPrice:       o.OpenPrice(),
			ClosePrice:      o.ClosePrice(),
			StopLoss:        o.StopLossPrice(),
			TakeProfit:      o.TakeProfitPrice(),
			ProfitLossPips:  o.ProfitLossPips(),
			State:           o.State().String(),
			Comment:         o.Comment(),
			CreationTime:    o.CreationTime(),
			FillTime:        o.FillTime(),
			CloseTime:       o.CloseTime(),
		})
	}
	return records
}
