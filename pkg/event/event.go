// Package event provides a simple synchronous event dispatcher.
package event

import (
	"sync"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Dispatcher routes named events to their listeners. The zero value is
// ready to use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Dispatcher { return &Dispatcher{} }

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = map[string][]Handler{}
	}
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
func (d *Dispatcher) Fire(event string, payload interface{}) {
	for _, h := range d.listeners(event) {
		h(payload)
	}
}
