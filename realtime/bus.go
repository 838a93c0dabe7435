package realtime

import "sync"

// Bus is a multi-subscriber event registry. Every Subscribe gets its own
// token, so re-registering for an event name never silently drops an
// unrelated listener.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[int]func(Event)
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func(Event))}
}

// Subscribe registers fn for the event name and returns its unsubscribe
// function.
func (b *Bus) Subscribe(name string, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[name] == nil {
		b.subs[name] = make(map[int]func(Event))
	}
	token := b.next
	b.next++
	b.subs[name][token] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], token)
	}
}

// Publish delivers the event to every subscriber of its name. Callbacks run
// outside the lock so a subscriber may unsubscribe from within its handler.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	callbacks := make([]func(Event), 0, len(b.subs[e.Name]))
	for _, fn := range b.subs[e.Name] {
		callbacks = append(callbacks, fn)
	}
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(e)
	}
}
