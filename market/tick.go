package market

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Tick is the most recent bid/ask quote for an instrument.
type Tick struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// TickSource answers single-shot quote queries.
type TickSource interface {
	GetTick(ctx context.Context, instrument string) (Tick, error)
}

// TickStore is a concurrent last-tick cache keyed by instrument name.
type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewTickStore() *TickStore {
	return &TickStore{ticks: make(map[string]Tick)}
}

func (s *TickStore) Set(t Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks[t.Instrument] = t
}

func (s *TickStore) GetTick(ctx context.Context, instrument string) (Tick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.ticks[instrument]
	if !ok {
		return Tick{}, fmt.Errorf("no tick for %s", instrument)
	}
	return t, nil
}
