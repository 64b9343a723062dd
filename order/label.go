package order

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Labeller generates unique order labels from a strategy tag, a day-of-month
// marker and an incrementing counter, so orders remain distinguishable across
// days without any persisted identity.
//
// Next is safe to call from concurrent submission paths; the counter is
// atomic because duplicate labels corrupt order-history correlation.
type Labeller struct {
	tag     string
	counter atomic.Int64
}

func NewLabeller(tag string) *Labeller {
	return &Labeller{tag: tag}
}

// Next returns the next unique label, e.g. "ema07c12" for tag "ema" on the
// 7th of the month.
func (l *Labeller) Next(now time.Time) string {
	n := l.counter.Add(1)
	return fmt.Sprintf("%s%02dc%d", l.tag, now.Day(), n)
}

func (l *Labeller) Counter() int64 {
	return l.counter.Load()
}

// SetCounter resets the counter, typically at day rollover.
func (l *Labeller) SetCounter(n int64) {
	l.counter.Store(n)
}
