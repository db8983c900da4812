package credstore

import "sync"

// Bus is the in-process "auth changed" broadcast: a credential write
// anywhere in the process signals every subscriber so they re-derive
// their state. It carries no payload; subscribers always re-read the
// store.
type Bus struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// Changes is the process-wide default bus. Stores created without an
// explicit bus publish here.
var Changes = NewBus()

func NewBus() *Bus {
	return &Bus{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. The returned channel has a one-slot
// buffer; a signal arriving while one is already pending is coalesced.
func (b *Bus) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener registered with Subscribe.
func (b *Bus) Unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish signals every subscriber without blocking. Slow subscribers
// that already hold a pending signal are skipped, not waited on.
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
