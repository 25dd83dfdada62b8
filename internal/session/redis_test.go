package session

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ygangat/coaching-platform/internal/wizard"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, nil)
}

func sampleSnapshot() wizard.Snapshot {
	d := wizard.NewDraft()
	d.Contact = wizard.Contact{FirstName: "Sarah", LastName: "Doe", Email: "sarah@x.com"}
	d.ServiceType = wizard.ServicePack
	d.SessionType = wizard.SessionTherapy
	d.HasInsurance = wizard.InsuranceYes
	d.ReceiptType = wizard.ReceiptMassage
	d.Notes = "prefers mornings"
	return wizard.Snapshot{
		Draft:        d,
		ServiceType:  d.ServiceType,
		SessionType:  d.SessionType,
		HasInsurance: d.HasInsurance,
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t).ForSession("tab-1")

	snap := sampleSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, snap, *got)
}

func TestRedisStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t).ForSession("tab-1")

	first := sampleSnapshot()
	require.NoError(t, store.Save(ctx, first))

	second := first
	second.ServiceType = wizard.ServiceSingle
	second.Draft.Notes = ""
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, second, *got, "save must replace the whole snapshot, never merge")
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t).ForSession("tab-1")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t).ForSession("tab-1")

	require.NoError(t, store.Clear(ctx), "clearing an empty store must not fail")

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	parent := newTestStore(t)
	a := parent.ForSession("tab-a")
	b := parent.ForSession("tab-b")

	snapA := sampleSnapshot()
	require.NoError(t, a.Save(ctx, snapA))

	gotB, err := b.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, gotB, "one tab's snapshot must not leak into another")

	require.NoError(t, b.Clear(ctx))
	gotA, err := a.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, gotA, "clearing one session must not clear another")
}

func TestDisabledStoreIsSilent(t *testing.T) {
	ctx := context.Background()
	var store Disabled
	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, store.Clear(ctx))
}
