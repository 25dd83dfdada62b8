// Package booking exposes the wizard over HTTP: it keeps the live
// sessions in memory, wires each one to its snapshot store, and maps
// client requests onto wizard operations.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ygangat/coaching-platform/internal/observability/metrics"
	"github.com/ygangat/coaching-platform/internal/wizard"
)

// SnapshotStores hands out a snapshot store scoped to one session.
type SnapshotStores interface {
	ForSession(sessionID string) wizard.SnapshotStore
}

// maxIdle matches the snapshot TTL: a session abandoned longer than
// this has lost its snapshot anyway.
const maxIdle = 24 * time.Hour

// Session is one live wizard session. All machine access goes through
// Do, which serializes requests arriving for the same session.
type Session struct {
	ID string

	mu           sync.Mutex
	machine      *wizard.Machine
	clientSecret string
	lastSeen     time.Time
}

// Do runs fn with exclusive access to the session's machine.
func (s *Session) Do(fn func(m *wizard.Machine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.machine)
}

// ClientSecret returns the payment authorization held for this session,
// if any.
func (s *Session) ClientSecret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientSecret
}

// SetClientSecret records the payment authorization for this session.
func (s *Session) SetClientSecret(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientSecret = secret
}

// Registry tracks live wizard sessions by ID. Each HTTP client owns one
// session per wizard run; the registry scopes snapshot storage so
// concurrent runs never share state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	stores   SnapshotStores
	metrics  *metrics.BookingMetrics
}

// NewRegistry creates a registry backed by the given stores.
func NewRegistry(stores SnapshotStores, m *metrics.BookingMetrics) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		stores:   stores,
		metrics:  m,
	}
}

// Create starts a new wizard session and returns it.
func (r *Registry) Create(opts ...wizard.Option) *Session {
	id := uuid.New().String()
	store := observedStore{inner: r.stores.ForSession(id), metrics: r.metrics}
	sess := &Session{
		ID:       id,
		machine:  wizard.NewMachine(store, opts...),
		lastSeen: time.Now(),
	}

	r.mu.Lock()
	r.prune(time.Now())
	r.sessions[id] = sess
	r.mu.Unlock()

	r.metrics.ObserveSessionStarted()
	return sess
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// prune drops sessions idle past maxIdle. Caller holds r.mu.
func (r *Registry) prune(now time.Time) {
	for id, sess := range r.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > maxIdle {
			delete(r.sessions, id)
		}
	}
}

// observedStore counts snapshot restore outcomes without changing the
// store's behavior.
type observedStore struct {
	inner   wizard.SnapshotStore
	metrics *metrics.BookingMetrics
}

func (o observedStore) Save(ctx context.Context, snap wizard.Snapshot) error {
	return o.inner.Save(ctx, snap)
}

func (o observedStore) Load(ctx context.Context) (*wizard.Snapshot, error) {
	snap, err := o.inner.Load(ctx)
	switch {
	case err != nil:
		o.metrics.ObserveSnapshotRestore("error")
	case snap == nil:
		o.metrics.ObserveSnapshotRestore("miss")
	default:
		o.metrics.ObserveSnapshotRestore("hit")
	}
	return snap, err
}

func (o observedStore) Clear(ctx context.Context) error {
	return o.inner.Clear(ctx)
}
