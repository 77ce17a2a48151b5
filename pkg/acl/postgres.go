package acl

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/pkg/db"
)

// PostgresStore persists grants in the acl_users, acl_roles and
// users_roles tables created by the bundled migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) UserGrants(ctx context.Context, userID int64) ([]Grant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT action, object_type, object_id FROM acl_users WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func (s *PostgresStore) RoleGrants(ctx context.Context, userID int64) ([]Grant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ar.action, ar.object_type, ar.object_id
		 FROM acl_roles ar
		 JOIN users_roles ur ON ur.role = ar.role
		 WHERE ur.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func (s *PostgresStore) Roles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role FROM users_roles WHERE user_id = $1 ORDER BY role`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *PostgresStore) AddUserGrant(ctx context.Context, userID int64, g Grant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO acl_users (user_id, action, object_type, object_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		userID, g.Action, g.ObjectType, g.ObjectID,
	)
	return err
}

func (s *PostgresStore) DeleteUserGrant(ctx context.Context, userID int64, g Grant) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM acl_users
		 WHERE user_id = $1 AND action = $2 AND object_type = $3 AND object_id = $4`,
		userID, g.Action, g.ObjectType, g.ObjectID,
	)
	return err
}

func (s *PostgresStore) AddRoleGrant(ctx context.Context, role string, g Grant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO acl_roles (role, action, object_type, object_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		role, g.Action, g.ObjectType, g.ObjectID,
	)
	return err
}

func (s *PostgresStore) DeleteRoleGrant(ctx context.Context, role string, g Grant) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM acl_roles
		 WHERE role = $1 AND action = $2 AND object_type = $3 AND object_id = $4`,
		role, g.Action, g.ObjectType, g.ObjectID,
	)
	return err
}

func (s *PostgresStore) AddMembership(ctx context.Context, userID int64, role string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users_roles (user_id, role)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, role,
	)
	return err
}

func (s *PostgresStore) DeleteMembership(ctx context.Context, userID int64, role string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM users_roles WHERE user_id = $1 AND role = $2`,
		userID, role,
	)
	return err
}

func (s *PostgresStore) WipeUser(ctx context.Context, userID int64) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM acl_users WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM users_roles WHERE user_id = $1`, userID)
		return err
	})
}

func (s *PostgresStore) GrantsOfUser(ctx context.Context, userID int64) ([]Grant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT action, object_type, object_id FROM acl_users
		 WHERE user_id = $1
		 ORDER BY action, object_type, object_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func (s *PostgresStore) GrantsOfRole(ctx context.Context, role string) ([]Grant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT action, object_type, object_id FROM acl_roles
		 WHERE role = $1
		 ORDER BY action, object_type, object_id`,
		role,
	)
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func (s *PostgresStore) MembersOfRole(ctx context.Context, role string) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM users_roles WHERE role = $1 ORDER BY user_id`,
		role,
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

func collectGrants(rows pgx.Rows) ([]Grant, error) {
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Action, &g.ObjectType, &g.ObjectID); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
