package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// valueLimit caps the stored length of field change values.
const valueLimit = 250

// Entry is one audit trail row. UserID is the user the action concerns
// and ActingUserID the user who performed it; they differ when an admin
// edits someone else's account.
type Entry struct {
	ID           int64
	Timestamp    time.Time
	UserID       int64
	ActingUserID int64
	IP           string
	ObjectType   string
	ObjectID     *int64
	Action       string
	FieldName    string
	OldValue     string
	NewValue     string
	Content      string
}

// Trail records and queries the append-only transactions table. Entries
// are never updated or deleted; corrections are new entries.
type Trail struct {
	pool *pgxpool.Pool
}

// NewTrail creates a Trail over the given pool.
func NewTrail(pool *pgxpool.Pool) *Trail {
	return &Trail{pool: pool}
}

// Log appends an entry. An empty UserID inherits ActingUserID, so plain
// self-service actions need only one of the two set. Field values are
// truncated to fit the column.
func (t *Trail) Log(ctx context.Context, e Entry) error {
	if e.UserID == 0 {
		e.UserID = e.ActingUserID
	}
	if e.IP == "" {
		e.IP = "127.0.0.1"
	}
	e.OldValue = truncate(e.OldValue, valueLimit)
	e.NewValue = truncate(e.NewValue, valueLimit)

	_, err := t.pool.Exec(ctx,
		`INSERT INTO transactions
		 (acting_user_id, user_id, ip, object_type, object_id, action, field_name, old_value, new_value, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ActingUserID, e.UserID, e.IP, e.ObjectType, e.ObjectID, e.Action,
		e.FieldName, e.OldValue, e.NewValue, e.Content,
	)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
