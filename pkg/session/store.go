package session

import (
	"context"
	"time"
)

// Store is the persistence boundary for sessions. Implementations live
// in pkg/sessionstore.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its cookie token. Returns ErrNotFound
	// for unknown tokens and ErrExpired for sessions past their expiry.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session bound to the user, for
	// "logout everywhere" and bans.
	DeleteByUserID(ctx context.Context, userID int64) error

	// Touch bumps LastActiveAt without a full update.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error

	// DeleteExpired removes sessions past their expiry and returns how
	// many were dropped. Called from the cleanup schedule.
	DeleteExpired(ctx context.Context) (int64, error)
}
