package session

import (
	"context"
	"io"
	"log/slog"
)

// CleanupTask drops expired sessions from the store on a schedule.
type CleanupTask struct {
	store  Store
	logger *slog.Logger
}

// NewCleanupTask creates the hourly cleanup. A nil logger discards.
func NewCleanupTask(store Store, logger *slog.Logger) *CleanupTask {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CleanupTask{store: store, logger: logger}
}

func (t *CleanupTask) Name() string { return "session_cleanup" }

func (t *CleanupTask) Schedule() string { return "30 * * * *" }

func (t *CleanupTask) Handle(ctx context.Context) error {
	n, err := t.store.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
	}
	return nil
}
