package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "label", "instrument", "is_long", "command", "amount",
	"requested_amount", "open_price", "close_price", "stop_loss",
	"take_profit", "profit_loss_pips", "state", "comment",
	"creation_time", "fill_time", "close_time",
}

// CSVJournal appends order records to a CSV file, one row per record,
// flushed immediately so a crash loses at most the in-flight row.
type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordOrder(r Record) error {
	err := j.w.Write([]string{
		r.ID,
		r.Label,
		r.Instrument,
		strconv.FormatBool(r.IsLong),
		r.Command,
		f(r.Amount),
		f(r.RequestedAmount),
		f(r.OpenPrice),
		f(r.ClosePrice),
		f(r.StopLoss),
		f(r.TakeProfit),
		f(r.ProfitLossPips),
		r.State,
		r.Comment,
		ts(r.CreationTime),
		ts(r.FillTime),
		ts(r.CloseTime),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// ts renders a timestamp, empty when the event has not happened yet.
func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
