package internal

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/job"
)

// cliOutput is where Trigger-driven handlers write.
var cliOutput = os.Stdout

// Option configures the App.
type Option func(*App)

// WithLogger sets the structured logger. Without it the app is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDefaultLang sets the language assumed when the path carries no
// language segment. Default "en".
func WithDefaultLang(lang string) Option {
	return func(a *App) {
		if len(lang) == 2 {
			a.defaultLang = strings.ToLower(lang)
		}
	}
}

// WithSessionManager attaches cookie sessions and login handling to the
// request lifecycle.
func WithSessionManager(sm *SessionManager) Option {
	return func(a *App) { a.sessions = sm }
}

// WithHealth mounts liveness and readiness endpoints.
func WithHealth(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithStatic serves handler under pattern ahead of the kernel
// catch-all, for assets and file downloads.
func WithStatic(pattern string, handler http.Handler) Option {
	return func(a *App) {
		a.staticRoutes = append(a.staticRoutes, staticRoute{pattern: pattern, handler: handler})
	}
}

// WithJobs starts the job manager with the server and drains it on
// shutdown.
func WithJobs(m *job.Manager) Option {
	return func(a *App) { a.jobs = m }
}

// WithMiddleware adds chi middleware to the outer router, applied to
// static mounts, health endpoints and the kernel alike.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) { a.middlewares = append(a.middlewares, mw...) }
}

// WithStartupHook runs fn after listeners bind but before serving.
// A returned error aborts startup.
func WithStartupHook(fn func(context.Context) error) Option {
	return func(a *App) { a.startupHooks = append(a.startupHooks, fn) }
}

// WithShutdownHook runs fn during graceful shutdown, after the HTTP
// server drains.
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) { a.shutdownHooks = append(a.shutdownHooks, fn) }
}

// discardHandler drops all records. slog.DiscardHandler equivalent kept
// local to avoid pinning the minimum toolchain.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
