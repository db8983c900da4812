// Package authstate holds the process-wide authentication snapshot and
// keeps it in sync with the credential slot. Four independent triggers
// (a poll timer, the in-process auth-changed bus, the credential-file
// watcher, and the regained-focus hook) all funnel into one idempotent
// resync that re-derives everything from the store and swaps the
// snapshot wholesale.
package authstate

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

// DefaultPollInterval is how often the provider re-checks token
// validity on its own.
const DefaultPollInterval = time.Minute

// Snapshot is the single reactive value exposed to the rest of the
// application. IsAuthenticated is always exactly User != nil; there is
// no second source of truth.
type Snapshot struct {
	User            *session.UserIdentity
	IsAuthenticated bool
}

func newSnapshot(user *session.UserIdentity) Snapshot {
	return Snapshot{User: user, IsAuthenticated: user != nil}
}

func (s Snapshot) equal(o Snapshot) bool {
	if s.IsAuthenticated != o.IsAuthenticated {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return *s.User == *o.User
}

// Provider owns the snapshot. It is the only writer; everyone else
// reads through Snapshot or Subscribe.
type Provider struct {
	svc          *session.Service
	bus          *credstore.Bus
	watcher      *credstore.Watcher
	pollInterval time.Duration
	log          zerolog.Logger

	mu   sync.RWMutex
	snap Snapshot
	subs map[chan Snapshot]struct{}

	focus chan struct{}

	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Provider.
type Option func(*Provider)

// WithPollInterval overrides the periodic validity check interval.
func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// WithBus subscribes the provider to a specific auth-changed bus
// instead of the process-wide default.
func WithBus(bus *credstore.Bus) Option {
	return func(p *Provider) {
		if bus != nil {
			p.bus = bus
		}
	}
}

// WithWatcher wires a credential-file watcher so changes made by other
// processes reach this provider.
func WithWatcher(w *credstore.Watcher) Option {
	return func(p *Provider) {
		p.watcher = w
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// New creates a provider over the session service. Call Run to start
// the resync loop.
func New(svc *session.Service, opts ...Option) *Provider {
	p := &Provider{
		svc:          svc,
		bus:          credstore.Changes,
		pollInterval: DefaultPollInterval,
		log:          zerolog.Nop(),
		subs:         make(map[chan Snapshot]struct{}),
		focus:        make(chan struct{}, 1),
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs the initial recompute, then serves the resync triggers
// until ctx is cancelled. Blocks; run it on its own goroutine.
func (p *Provider) Run(ctx context.Context) {
	p.resync()
	p.readyOnce.Do(func() { close(p.ready) })

	if p.watcher != nil {
		go p.watcher.Run(ctx)
	}

	busCh := p.bus.Subscribe()
	defer p.bus.Unsubscribe(busCh)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	var watchCh <-chan struct{}
	if p.watcher != nil {
		watchCh = p.watcher.Changes()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollValidity()
		case <-busCh:
			p.log.Debug().Msg("auth changed, resyncing")
			p.resync()
		case <-watchCh:
			p.log.Debug().Msg("credential file changed, resyncing")
			p.resync()
		case <-p.focus:
			p.resync()
		}
	}
}

// Ready is closed after the first recompute; readers that must not see
// a pre-sync snapshot wait on it (the loading-gate analog).
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Snapshot returns the current value.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Subscribe registers a listener that receives every snapshot
// replacement (deduplicated: identical replacements are not re-sent).
func (p *Provider) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 8)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener.
func (p *Provider) Unsubscribe(ch chan Snapshot) {
	p.mu.Lock()
	delete(p.subs, ch)
	p.mu.Unlock()
}

// Focus is the regained-focus hook. The CLI maps SIGCONT onto it, the
// web shell calls it per navigation. Never blocks; redundant calls
// coalesce.
func (p *Provider) Focus() {
	select {
	case p.focus <- struct{}{}:
	default:
	}
}

// Logout ends the session: credential removed, local state cleared
// immediately, and the change re-broadcast so sibling providers in the
// same process resynchronize too.
func (p *Provider) Logout() {
	p.svc.Logout()
	p.replace(newSnapshot(nil))
	p.bus.Publish()
}

// resync fully re-derives the snapshot from the store. Idempotent and
// safe to invoke redundantly: it only reads, then replaces wholesale.
func (p *Provider) resync() {
	p.replace(newSnapshot(p.svc.CurrentUser()))
}

// pollValidity is the timer path: it only clears a user whose token
// went invalid, it never resurrects one.
func (p *Provider) pollValidity() {
	if !p.svc.IsTokenValid() {
		p.replace(newSnapshot(nil))
	}
}

// replace swaps the snapshot and notifies subscribers afterwards,
// never during the swap. Sends are non-blocking.
func (p *Provider) replace(snap Snapshot) {
	p.mu.Lock()
	unchanged := p.snap.equal(snap)
	p.snap = snap
	targets := make([]chan Snapshot, 0, len(p.subs))
	for ch := range p.subs {
		targets = append(targets, ch)
	}
	p.mu.Unlock()

	if unchanged {
		return
	}
	for _, ch := range targets {
		select {
		case ch <- snap:
		default:
		}
	}
}
