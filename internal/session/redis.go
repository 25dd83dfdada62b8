// Package session provides SnapshotStore implementations for the
// booking wizard. The redis-backed store is the production one; a
// memory store serves tests and a disabled store models a browsing
// context where session storage is unavailable.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ygangat/coaching-platform/internal/wizard"
)

// snapshotTTL bounds abandoned sessions: a snapshot that never gets
// consumed by a payment confirmation expires on its own, mirroring the
// tab-close lifetime of the original store.
const snapshotTTL = 24 * time.Hour

// RedisStore persists wizard snapshots in redis, one key per wizard
// session. Use ForSession to obtain the session-scoped capability the
// wizard expects.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisStore creates the store. The client must not be nil.
func NewRedisStore(client *redis.Client, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("coaching.internal.session")
	}
	return &RedisStore{redis: client, tracer: tracer}
}

// ForSession scopes the store to one wizard session. Distinct sessions
// get distinct keys, so concurrent bookings in different tabs cannot
// clobber each other.
func (s *RedisStore) ForSession(sessionID string) wizard.SnapshotStore {
	return &scopedStore{parent: s, key: snapshotKey(sessionID)}
}

type scopedStore struct {
	parent *RedisStore
	key    string
}

func (s *scopedStore) Save(ctx context.Context, snap wizard.Snapshot) error {
	ctx, span := s.parent.tracer.Start(ctx, "session.save_snapshot")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal snapshot: %w", err)
	}
	if err := s.parent.redis.Set(ctx, s.key, data, snapshotTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist snapshot: %w", err)
	}
	return nil
}

func (s *scopedStore) Load(ctx context.Context) (*wizard.Snapshot, error) {
	ctx, span := s.parent.tracer.Start(ctx, "session.load_snapshot")
	defer span.End()

	data, err := s.parent.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load snapshot: %w", err)
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *scopedStore) Clear(ctx context.Context) error {
	ctx, span := s.parent.tracer.Start(ctx, "session.clear_snapshot")
	defer span.End()

	if err := s.parent.redis.Del(ctx, s.key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to clear snapshot: %w", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("booking_state:%s", sessionID)
}
