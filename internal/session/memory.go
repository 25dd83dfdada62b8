package session

import (
	"context"
	"sync"

	"github.com/ygangat/coaching-platform/internal/wizard"
)

// MemoryStore is an in-process snapshot store keyed by session ID.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]wizard.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]wizard.Snapshot)}
}

// ForSession scopes the store to one wizard session.
func (s *MemoryStore) ForSession(sessionID string) wizard.SnapshotStore {
	return &memScoped{parent: s, key: sessionID}
}

type memScoped struct {
	parent *MemoryStore
	key    string
}

func (s *memScoped) Save(_ context.Context, snap wizard.Snapshot) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.snaps[s.key] = snap
	return nil
}

func (s *memScoped) Load(_ context.Context) (*wizard.Snapshot, error) {
	s.parent.mu.RLock()
	defer s.parent.mu.RUnlock()
	snap, ok := s.parent.snaps[s.key]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *memScoped) Clear(_ context.Context) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.snaps, s.key)
	return nil
}
