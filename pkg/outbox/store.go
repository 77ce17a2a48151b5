package outbox

import (
	"context"
	"time"
)

// Store persists spooled messages.
type Store interface {
	// Create inserts a message and returns its ID.
	Create(ctx context.Context, m Message) (int64, error)

	// Get fetches one message. Missing IDs return ErrNotFound.
	Get(ctx context.Context, id int64) (Message, error)

	// Update rewrites an existing message's addressing and content.
	Update(ctx context.Context, m Message) error

	// Delete removes a message. A non-zero ownerID only deletes the
	// user's own messages.
	Delete(ctx context.Context, id, ownerID int64) error

	// Pending returns unsent messages, oldest first. A zero userID
	// returns every user's queue.
	Pending(ctx context.Context, userID int64) ([]Message, error)

	// HasPending reports whether the user has unsent messages.
	HasPending(ctx context.Context, userID int64) (bool, error)

	// MarkSent flags a message as delivered.
	MarkSent(ctx context.Context, id int64) error

	// Stale returns IDs of unsent system messages last touched before
	// the cutoff.
	Stale(ctx context.Context, before time.Time) ([]int64, error)
}
