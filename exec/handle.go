package exec

import (
	"sync"

	"github.com/quantfx/fxrisk/broker"
)

// Handle is a single-resolution reference to a venue operation running off
// the caller's path. It resolves exactly once, possibly to no order when the
// operation failed venue-side.
type Handle struct {
	once sync.Once
	done chan struct{}
	ord  broker.Order
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Resolved wraps an already-known order in a pre-resolved handle, so
// operations that take a handle also accept a live order.
func Resolved(ord broker.Order) *Handle {
	h := newHandle()
	h.resolve(ord)
	return h
}

func (h *Handle) resolve(ord broker.Order) {
	h.once.Do(func() {
		h.ord = ord
		close(h.done)
	})
}

// Wait blocks until the operation resolves. ok is false when it resolved to
// no order; callers must check ok before using the order.
func (h *Handle) Wait() (ord broker.Order, ok bool) {
	<-h.done
	return h.ord, h.ord != nil
}

// Done exposes resolution for select loops.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
