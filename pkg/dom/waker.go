package dom

import "sync/atomic"

// Waker is a single-slot wake signal. Any number of Wake calls between two
// receives collapse into one pending wake-up.
//
// A nil *Waker is valid and ignores every call, which is convenient when a
// view tree is built without a run loop.
type Waker struct {
	ch        chan struct{}
	delivered atomic.Uint64
}

// NewWaker creates a Waker with no pending wake-up.
func NewWaker() *Waker {
	return &Waker{ch: make(chan struct{}, 1)}
}

// Wake marks the waker as signalled. It never blocks and is safe to call
// from any goroutine.
func (w *Waker) Wake() {
	if w == nil {
		return
	}
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// C returns the channel that receives a value once per pending wake-up.
func (w *Waker) C() <-chan struct{} {
	return w.ch
}

// Pending reports whether a wake-up is waiting, consuming it if so.
func (w *Waker) Pending() bool {
	select {
	case <-w.ch:
		return true
	default:
		return false
	}
}

// Delivered records that an event recorded before a wake-up was handed to
// its handler.
func (w *Waker) Delivered() {
	if w != nil {
		w.delivered.Add(1)
	}
}

// TakeDelivered returns the number of events delivered since the previous
// call and resets the count.
func (w *Waker) TakeDelivered() uint64 {
	return w.delivered.Swap(0)
}
