package core

import (
	"sync"
)

// hub fans records out to subscribers in subscription order
type hub struct {
	mu       sync.RWMutex
	next     uint64
	order    []uint64
	handlers map[uint64]func(Record)
}

// subscribe registers fn and returns a function removing it again.
// Calling the returned function more than once is harmless.
func (h *hub) subscribe(fn func(Record)) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	if h.handlers == nil {
		h.handlers = make(map[uint64]func(Record))
	}
	h.next++
	id := h.next
	h.handlers[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}
}

// len returns the number of subscribers
func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// fire calls every subscriber outside the lock so handlers may subscribe,
// unsubscribe or log again.
func (h *hub) fire(r Record) {
	h.mu.RLock()
	if len(h.order) == 0 {
		h.mu.RUnlock()
		return
	}
	fns := make([]func(Record), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.handlers[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(r)
	}
}
