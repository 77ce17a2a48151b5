package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Query restricts a history lookup. At least one restriction must be
// set; an unrestricted query returns no rows rather than the whole
// table.
type Query struct {
	// UserID matches entries where the user is either the actor or the
	// acted-upon user object.
	UserID     *int64
	ObjectType string
	ObjectID   *int64
	// Actions matches any of the listed actions.
	Actions   []string
	FieldName string

	// Begin and End bound the entry timestamp, inclusive. Zero values
	// leave the corresponding side open.
	Begin time.Time
	End   time.Time

	// Newest reverses the default oldest-first order.
	Newest bool
	// Max caps the number of rows; zero means no cap.
	Max int
}

func (q Query) restricted() bool {
	return q.UserID != nil || q.ObjectType != "" || q.ObjectID != nil ||
		len(q.Actions) > 0 || q.FieldName != "" || !q.Begin.IsZero() || !q.End.IsZero()
}

// build renders the query to SQL. Split out for testability.
func (q Query) build() (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.UserID != nil {
		p := arg(*q.UserID)
		conds = append(conds, fmt.Sprintf("(user_id = %s OR (object_type = 'user' AND object_id = %s))", p, p))
	}
	if q.ObjectType != "" {
		conds = append(conds, "object_type = "+arg(q.ObjectType))
	}
	if q.ObjectID != nil {
		conds = append(conds, "object_id = "+arg(*q.ObjectID))
	}
	switch len(q.Actions) {
	case 0:
	case 1:
		conds = append(conds, "action = "+arg(q.Actions[0]))
	default:
		conds = append(conds, "action = ANY("+arg(q.Actions)+")")
	}
	if q.FieldName != "" {
		conds = append(conds, "field_name = "+arg(q.FieldName))
	}
	if !q.Begin.IsZero() {
		conds = append(conds, "ts >= "+arg(q.Begin))
	}
	if !q.End.IsZero() {
		conds = append(conds, "ts <= "+arg(q.End))
	}

	order := "ASC"
	if q.Newest {
		order = "DESC"
	}
	sql := `SELECT id, ts, user_id, acting_user_id, ip, object_type, object_id, action,
	 field_name, old_value, new_value, content
	 FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		fmt.Sprintf(" ORDER BY id %s", order)
	if q.Max > 0 {
		sql += " LIMIT " + arg(q.Max)
	}
	return sql, args
}

// History returns the entries matching the query in chronological order,
// newest first when q.Newest is set. An unrestricted query returns nil
// without touching the database.
func (t *Trail) History(ctx context.Context, q Query) ([]Entry, error) {
	if !q.restricted() {
		return nil, nil
	}
	sql, args := q.build()
	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID, &e.ActingUserID, &e.IP,
			&e.ObjectType, &e.ObjectID, &e.Action, &e.FieldName,
			&e.OldValue, &e.NewValue, &e.Content); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LoginInfo describes a user's most recent login.
type LoginInfo struct {
	Timestamp time.Time
	IP        string
}

// LastLogin returns the user's most recent login entry, nil if the user
// has never logged in.
func (t *Trail) LastLogin(ctx context.Context, userID int64) (*LoginInfo, error) {
	var info LoginInfo
	err := t.pool.QueryRow(ctx,
		`SELECT ts, ip FROM transactions
		 WHERE object_type = 'user' AND object_id = $1 AND action = 'login'
		 ORDER BY id DESC LIMIT 1`,
		userID,
	).Scan(&info.Timestamp, &info.IP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// ActiveObjectIDs returns the distinct IDs of objectType with any
// activity in the optional [begin, end] window, ascending.
func (t *Trail) ActiveObjectIDs(ctx context.Context, objectType string, begin, end time.Time) ([]int64, error) {
	sql := `SELECT DISTINCT object_id FROM transactions WHERE object_type = $1 AND object_id IS NOT NULL`
	args := []any{objectType}
	if !begin.IsZero() {
		args = append(args, begin)
		sql += fmt.Sprintf(" AND ts >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		sql += fmt.Sprintf(" AND ts <= $%d", len(args))
	}
	sql += " ORDER BY object_id ASC"

	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
