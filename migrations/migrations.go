// Package migrations embeds the framework schema and wires it to the
// install event, so `-t install` creates everything a fresh deployment
// needs: users, ACL relations, sessions, the audit trail and the
// outbox, plus the baseline admin/member roles.
package migrations

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/pkg/db"
	"github.com/dmitrymomot/anvil/pkg/eventbus"
)

//go:embed *.sql
var FS embed.FS

// Apply runs every pending migration against the pool.
func Apply(ctx context.Context, pool *pgxpool.Pool, table string, logger *slog.Logger) error {
	return db.Migrate(ctx, pool, FS, table, logger)
}

// Bind registers the install event handler.
func Bind(bus *eventbus.Bus, pool *pgxpool.Pool, table string, logger *slog.Logger) {
	bus.On("install", func(ctx context.Context, _ ...any) eventbus.Result {
		if err := Apply(ctx, pool, table, logger); err != nil {
			logger.ErrorContext(ctx, "install failed", slog.Any("error", err))
			return eventbus.Failure()
		}
		return eventbus.OK()
	})
}
