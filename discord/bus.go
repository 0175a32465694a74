package discord

import "sync"

// Listener receives the arguments an event was emitted with.
type Listener func(args ...any)

type binding struct {
	fn   Listener
	once bool
}

// Bus is a named-event emitter. Emit runs listeners synchronously in
// registration order; once-listeners are removed before they run.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]*binding
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]*binding)}
}

func (b *Bus) On(event string, fn Listener) {
	b.add(event, fn, false)
}

func (b *Bus) Once(event string, fn Listener) {
	b.add(event, fn, true)
}

func (b *Bus) add(event string, fn Listener, once bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[event] = append(b.listeners[event], &binding{fn: fn, once: once})
}

// Emit calls every listener bound to event and reports how many ran.
func (b *Bus) Emit(event string, args ...any) int {
	b.mu.Lock()
	bound := b.listeners[event]
	kept := bound[:0:0]
	for _, l := range bound {
		if !l.once {
			kept = append(kept, l)
		}
	}
	b.listeners[event] = kept
	b.mu.Unlock()

	for _, l := range bound {
		l.fn(args...)
	}
	return len(bound)
}

func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}
