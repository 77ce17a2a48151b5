package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/redis"
)

func TestConnectRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL: "http://not-redis",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrFailedToParseURL)
}

func TestConnectGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Nothing listens on this port.
	_, err := redis.Connect(ctx, redis.Config{
		ConnectionURL: "redis://127.0.0.1:1/0",
		RetryAttempts: 1,
		RetryInterval: 10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrFailedToConnect)
}
