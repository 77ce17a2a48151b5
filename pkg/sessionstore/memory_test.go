package sessionstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/sessionstore"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := sessionstore.NewMemory()

	sess := session.New("id-1", "tok-1", time.Now().Add(time.Hour))
	sess.SetValue("lang", "en")
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "en", session.ValueOr(got, "lang", ""))

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Token rotation drops the old token.
	got.Token = "tok-2"
	require.NoError(t, store.Update(ctx, got))

	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "tok-2")
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "id-1"))
	_, err = store.Get(ctx, "tok-2")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStoreDeleteByUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := sessionstore.NewMemory()
	uid := int64(7)

	for _, tok := range []string{"a", "b"} {
		sess := session.New("id-"+tok, "tok-"+tok, time.Now().Add(time.Hour))
		sess.UserID = &uid
		require.NoError(t, store.Create(ctx, sess))
	}
	other := session.New("id-x", "tok-x", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, other))

	require.NoError(t, store.DeleteByUserID(ctx, 7))

	_, err := store.Get(ctx, "tok-a")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "tok-b")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "tok-x")
	assert.NoError(t, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := sessionstore.NewMemory()

	expired := session.New("id-old", "tok-old", time.Now().Add(-time.Minute))
	require.NoError(t, store.Create(ctx, expired))
	live := session.New("id-new", "tok-new", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, live))

	_, err := store.Get(ctx, "tok-old")
	assert.ErrorIs(t, err, session.ErrExpired)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "tok-new")
	assert.NoError(t, err)
}
