package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = `id, email, name, active, password_hash, onetime_hash, onetime_issued_at`

func (s *PostgresStore) ByID(ctx context.Context, id int64) (Account, error) {
	return s.one(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) ByEmail(ctx context.Context, email string) (Account, error) {
	return s.one(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) one(ctx context.Context, sql string, arg any) (Account, error) {
	var acc Account
	err := s.pool.QueryRow(ctx, sql, arg).Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.Active,
		&acc.PasswordHash, &acc.OnetimeHash, &acc.OnetimeIssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

func (s *PostgresStore) Create(ctx context.Context, acc Account) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, active, password_hash, onetime_hash, onetime_issued_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING id`,
		acc.Email, acc.Name, acc.Active, acc.PasswordHash, acc.OnetimeHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, changes Changes) error {
	if changes.IsEmpty() {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET
		   email = COALESCE($2, email),
		   name = COALESCE($3, name),
		   password_hash = COALESCE($4, password_hash),
		   onetime_hash = COALESCE($5, onetime_hash),
		   onetime_issued_at = CASE WHEN $5::text IS NULL THEN onetime_issued_at ELSE now() END
		 WHERE id = $1`,
		id, changes.Email, changes.Name, changes.PasswordHash, changes.OnetimeHash,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *PostgresStore) ClearOnetime(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET onetime_hash = '*' WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET active = $2 WHERE id = $1`, id, active)
	return err
}

func (s *PostgresStore) Search(ctx context.Context, keyword string, limit int) ([]User, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if keyword == "" {
		rows, err = s.pool.Query(ctx,
			`SELECT id, email, name, active FROM users
			 WHERE active ORDER BY id DESC LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, email, name, active FROM users
			 WHERE email ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
			 ORDER BY id DESC LIMIT $2`, keyword, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Active); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Store = (*PostgresStore)(nil)
