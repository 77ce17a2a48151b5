package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/pkg/session"
)

// Postgres persists sessions in the sessions table created by the
// bundled migrations. Session values are stored as JSONB.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a session store over the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, sess *session.Session) error {
	values, err := json.Marshal(sess.Values)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, token, user_id, data, ip, user_agent, fingerprint, created_at, last_active_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sess.ID, sess.Token, sess.UserID, values, sess.IP, sess.UserAgent,
		sess.Fingerprint, sess.CreatedAt, sess.LastActiveAt, sess.ExpiresAt,
	)
	return err
}

func (s *Postgres) Get(ctx context.Context, token string) (*session.Session, error) {
	var (
		sess   session.Session
		values []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, token, user_id, data, ip, user_agent, fingerprint, created_at, last_active_at, expires_at
		 FROM sessions WHERE token = $1`,
		token,
	).Scan(&sess.ID, &sess.Token, &sess.UserID, &values, &sess.IP, &sess.UserAgent,
		&sess.Fingerprint, &sess.CreatedAt, &sess.LastActiveAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(values, &sess.Values); err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, session.ErrExpired
	}
	return &sess, nil
}

func (s *Postgres) Update(ctx context.Context, sess *session.Session) error {
	values, err := json.Marshal(sess.Values)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE sessions
		 SET token = $2, user_id = $3, data = $4, fingerprint = $5, last_active_at = $6, expires_at = $7
		 WHERE id = $1`,
		sess.ID, sess.Token, sess.UserID, values, sess.Fingerprint, sess.LastActiveAt, sess.ExpiresAt,
	)
	return err
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (s *Postgres) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (s *Postgres) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET last_active_at = $2 WHERE id = $1`,
		id, lastActiveAt,
	)
	return err
}

func (s *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ session.Store = (*Postgres)(nil)
