package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/sessionstore"
)

func TestCleanupTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := sessionstore.NewMemory()

	expired := session.New("sid-old", "tok-old", time.Now().Add(-time.Hour))
	live := session.New("sid-live", "tok-live", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, expired))
	require.NoError(t, store.Create(ctx, live))

	task := session.NewCleanupTask(store, nil)
	assert.Equal(t, "session_cleanup", task.Name())
	assert.NotEmpty(t, task.Schedule())

	require.NoError(t, task.Handle(ctx))

	_, err := store.Get(ctx, "tok-old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Get(ctx, "tok-live")
	assert.NoError(t, err)
}
