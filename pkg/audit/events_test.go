package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/eventbus"
)

func TestBindRejectsMalformedArgs(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	audit.NewTrail(nil).Bind(bus)

	ctx := context.Background()
	assert.False(t, bus.Pass(ctx, "log"))
	assert.False(t, bus.Pass(ctx, "log", "not an entry"))
	assert.False(t, bus.Pass(ctx, "history", 42))
	assert.False(t, bus.Pass(ctx, "user_seen", "7"))
	assert.False(t, bus.Pass(ctx, "in_history", "article"))

	assert.True(t, bus.Listeners("log"))
	assert.True(t, bus.Listeners("history"))
	assert.True(t, bus.Listeners("user_seen"))
	assert.True(t, bus.Listeners("in_history"))
}
