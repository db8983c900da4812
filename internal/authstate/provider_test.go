package authstate

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/gateway"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

type fixture struct {
	store *credstore.FileStore
	bus   *credstore.Bus
	svc   *session.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := credstore.NewBus()
	store, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "token.json"), bus)
	require.NoError(t, err)
	return &fixture{
		store: store,
		bus:   bus,
		svc:   session.New(store, gateway.New("")),
	}
}

func (f *fixture) signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "voter-1",
		"role":  role,
		"email": "alice@example.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func startProvider(t *testing.T, p *Provider) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx)
	select {
	case <-p.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("provider never became ready")
	}
}

func waitForAuth(t *testing.T, p *Provider, want bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p.Snapshot().IsAuthenticated == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("snapshot never reached IsAuthenticated=%v", want)
}

func TestProviderInitialResync(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))

	p := New(f.svc, WithBus(f.bus))
	startProvider(t, p)

	snap := p.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	require.Equal(t, "voter-1", snap.User.ID)
}

func TestSnapshotInvariant(t *testing.T) {
	f := newFixture(t)
	p := New(f.svc, WithBus(f.bus))
	startProvider(t, p)

	snap := p.Snapshot()
	require.Equal(t, snap.User != nil, snap.IsAuthenticated)

	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))
	waitForAuth(t, p, true)
	snap = p.Snapshot()
	require.Equal(t, snap.User != nil, snap.IsAuthenticated)
}

func TestProviderReactsToBus(t *testing.T) {
	f := newFixture(t)
	p := New(f.svc, WithBus(f.bus))
	startProvider(t, p)
	require.False(t, p.Snapshot().IsAuthenticated)

	// A store write publishes on the bus; no polling needed.
	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))
	waitForAuth(t, p, true)
}

func TestProviderPollClearsInvalidUser(t *testing.T) {
	f := newFixture(t)
	// exp claims truncate to whole seconds, so the margin must be a
	// couple of seconds for the token to be live at the first resync.
	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(2*time.Second)), time.Hour))

	p := New(f.svc, WithBus(f.bus), WithPollInterval(20*time.Millisecond))
	startProvider(t, p)
	require.True(t, p.Snapshot().IsAuthenticated)

	// Token expires; the next poll tick must clear the user.
	waitForAuth(t, p, false)
}

func TestProviderFocusResyncs(t *testing.T) {
	f := newFixture(t)
	p := New(f.svc, WithBus(f.bus), WithPollInterval(time.Hour))
	startProvider(t, p)

	// Write the file directly so neither bus nor poll can observe it.
	otherBus := credstore.NewBus()
	other, err := credstore.NewFileStore(f.store.Path(), otherBus)
	require.NoError(t, err)
	require.NoError(t, other.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))
	time.Sleep(20 * time.Millisecond)
	require.False(t, p.Snapshot().IsAuthenticated)

	p.Focus()
	waitForAuth(t, p, true)
}

func TestProviderWatcherCrossProcess(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))

	p := New(f.svc,
		WithBus(f.bus),
		WithPollInterval(time.Hour),
		WithWatcher(credstore.NewWatcher(f.store.Path(), 10*time.Millisecond)),
	)
	startProvider(t, p)
	require.True(t, p.Snapshot().IsAuthenticated)

	// A second store over the same path stands in for another process;
	// its bus is unreachable from here, only the file change is.
	other, err := credstore.NewFileStore(f.store.Path(), credstore.NewBus())
	require.NoError(t, err)
	require.NoError(t, other.Remove())

	waitForAuth(t, p, false)
}

func TestProviderLogout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(f.signToken(t, "user", time.Now().Add(time.Hour)), time.Hour))

	p := New(f.svc, WithBus(f.bus))
	startProvider(t, p)
	require.True(t, p.Snapshot().IsAuthenticated)

	// A sibling provider on the same bus must observe the logout.
	sibling := New(f.svc, WithBus(f.bus))
	startProvider(t, sibling)
	require.True(t, sibling.Snapshot().IsAuthenticated)

	p.Logout()
	require.False(t, p.Snapshot().IsAuthenticated)
	require.Nil(t, f.svc.CurrentUser())
	waitForAuth(t, sibling, false)
}

func TestSubscribeReceivesReplacements(t *testing.T) {
	f := newFixture(t)
	p := New(f.svc, WithBus(f.bus))
	startProvider(t, p)

	sub := p.Subscribe()
	defer p.Unsubscribe(sub)

	require.NoError(t, f.store.Set(f.signToken(t, "admin", time.Now().Add(time.Hour)), time.Hour))

	select {
	case snap := <-sub:
		require.True(t, snap.IsAuthenticated)
		require.Equal(t, session.RoleAdmin, snap.User.Role)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber never notified")
	}
}
