package db

import "time"

// Config holds PostgreSQL connection parameters, populated from
// environment variables.
type Config struct {
	// ConnectionString is a postgres:// URL.
	ConnectionString string `env:"DATABASE_CONN_URL,required"`

	// MigrationsTable names the goose bookkeeping table.
	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// HealthCheckPeriod is the pool's idle connection check interval.
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`

	// MaxConnIdleTime forces connection refresh, which keeps poolers
	// like PgBouncer from serving stale connections.
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`

	// MaxConnLifetime bounds total connection age so failovers and
	// network changes are picked up.
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	// Startup retry settings for transient connection failures.
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`

	MaxOpenConns int32 `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MinConns     int32 `env:"DATABASE_MIN_CONNS" envDefault:"5"`
}
