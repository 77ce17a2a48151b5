package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists messages in the outbox table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const messageColumns = `id, user_id, mail_from, recipients, ccs, bccs, subject, html,
	context_type, context_id, sent, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, m Message) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO outbox (user_id, mail_from, recipients, ccs, bccs, subject, html, context_type, context_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		m.UserID, m.MailFrom, m.Recipients, m.CCs, m.BCCs,
		m.Subject, m.HTML, m.ContextType, m.ContextID,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Message, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM outbox WHERE id = $1`, id)
	return scanMessage(row)
}

func (s *PostgresStore) Update(ctx context.Context, m Message) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE outbox
		 SET mail_from = $2, recipients = $3, ccs = $4, bccs = $5,
		     subject = $6, html = $7, updated_at = now()
		 WHERE id = $1 AND NOT sent`,
		m.ID, m.MailFrom, m.Recipients, m.CCs, m.BCCs, m.Subject, m.HTML,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID int64) error {
	sql := `DELETE FROM outbox WHERE id = $1`
	args := []any{id}
	if ownerID != 0 {
		sql += ` AND user_id = $2`
		args = append(args, ownerID)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Pending(ctx context.Context, userID int64) ([]Message, error) {
	sql := `SELECT ` + messageColumns + ` FROM outbox WHERE NOT sent`
	args := []any{}
	if userID != 0 {
		sql += ` AND user_id = $1`
		args = append(args, userID)
	}
	sql += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *PostgresStore) HasPending(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM outbox WHERE NOT sent AND user_id = $1)`,
		userID,
	).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) MarkSent(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE outbox SET sent = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Stale(ctx context.Context, before time.Time) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM outbox WHERE NOT sent AND user_id = 0 AND updated_at < $1`,
		before,
	)
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

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(
		&m.ID, &m.UserID, &m.MailFrom, &m.Recipients, &m.CCs, &m.BCCs,
		&m.Subject, &m.HTML, &m.ContextType, &m.ContextID,
		&m.Sent, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	return m, nil
}
