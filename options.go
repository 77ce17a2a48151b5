package anvil

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/job"
)

// App options

// WithLogger sets the structured logger. Without it the app is silent.
func WithLogger(logger *slog.Logger) Option {
	return internal.WithLogger(logger)
}

// WithDefaultLang sets the language assumed when the path carries no
// two-character language segment. Default "en".
func WithDefaultLang(lang string) Option {
	return internal.WithDefaultLang(lang)
}

// WithSessionManager attaches cookie sessions and login handling to the
// request lifecycle.
func WithSessionManager(sm *SessionManager) Option {
	return internal.WithSessionManager(sm)
}

// WithHealth mounts liveness and readiness endpoints.
//
// Example:
//
//	anvil.WithHealth(
//	    anvil.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealth(opts ...HealthOption) Option {
	return internal.WithHealth(opts...)
}

// WithStatic serves handler under pattern ahead of the kernel
// catch-all, for assets and file downloads.
func WithStatic(pattern string, handler http.Handler) Option {
	return internal.WithStatic(pattern, handler)
}

// WithJobs starts the job manager with the server and drains it on
// shutdown.
func WithJobs(m *job.Manager) Option {
	return internal.WithJobs(m)
}

// WithMiddleware adds standard net/http middleware to the outer router.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithMiddleware(mw...)
}

// WithStartupHook runs fn after listeners bind but before serving.
func WithStartupHook(fn func(context.Context) error) Option {
	return internal.WithStartupHook(fn)
}

// WithShutdownHook runs fn during graceful shutdown.
func WithShutdownHook(fn func(context.Context) error) Option {
	return internal.WithShutdownHook(fn)
}

// Health options

// WithLivenessPath overrides the liveness path. Default /health/live.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides the readiness path. Default /health/ready.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Session options

// WithSessionCookieName overrides the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionLifetime sets how long sessions live. Default 30 days.
func WithSessionLifetime(d time.Duration) SessionOption {
	return internal.WithSessionLifetime(d)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSecureCookies marks session cookies Secure.
func WithSecureCookies() SessionOption {
	return internal.WithSecureCookies()
}
