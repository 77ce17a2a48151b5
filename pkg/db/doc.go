// Package db wraps [github.com/jackc/pgx/v5/pgxpool] with connection
// pooling, startup retries, schema migrations and transaction helpers.
//
// Configuration comes from environment variables via the [Config] struct
// tags:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - maximum open connections (default 10)
//	DATABASE_MIN_CONNS          - minimum idle connections (default 5)
//	DATABASE_HEALTHCHECK_PERIOD - pool health check interval (default 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - maximum connection idle time (default 10m)
//	DATABASE_MAX_CONN_LIFETIME  - maximum connection lifetime (default 30m)
//	DATABASE_RETRY_ATTEMPTS     - connection retry attempts (default 3)
//	DATABASE_RETRY_INTERVAL     - base retry interval (default 5s)
//	DATABASE_MIGRATIONS_TABLE   - migrations table name (default schema_migrations)
//
// Migrations are SQL files embedded with embed.FS and applied with
// [github.com/pressly/goose/v3] through [Migrate]. [WithTx] runs a
// function inside a transaction with rollback on error or panic.
package db
