package job

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewManagerRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrPoolRequired)
}

func TestNewEnqueuerRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewEnqueuer(nil)
	assert.ErrorIs(t, err, ErrPoolRequired)
}

func TestHealthcheckNilManager(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	assert.ErrorIs(t, err, ErrHealthcheckFailed)
}

func TestScheduledExecutor(t *testing.T) {
	t.Parallel()

	var ran bool
	exec := scheduledExecutor(func(context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, exec.Execute(context.Background(), nil))
	assert.True(t, ran)
}
