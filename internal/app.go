package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/anvil/pkg/eventbus"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/job"
	"github.com/dmitrymomot/anvil/pkg/session"
)

// Server timeouts, deliberately not configurable.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// Kernel lifecycle priorities on the startup event: the session loads
// before the router runs.
const (
	startupSessionPriority = 10
	startupRouterPriority  = 50
)

// App wires the event bus, the kernel router and the HTTP surface. An
// outer chi router serves health probes and static files directly;
// everything else funnels into the kernel as a catch-all.
type App struct {
	bus         *eventbus.Bus
	router      chi.Router
	kernel      *Kernel
	sessions    *SessionManager
	jobs        *job.Manager
	logger      *slog.Logger
	defaultLang string

	healthConfig  *healthConfig
	staticRoutes  []staticRoute
	middlewares   []func(http.Handler) http.Handler
	startupHooks  []func(context.Context) error
	shutdownHooks []func(context.Context) error
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New builds the app and mounts its routes. Register route and event
// handlers on Bus (or through HandleRoute) before calling Run.
func New(opts ...Option) *App {
	a := &App{
		bus:         eventbus.New(),
		router:      chi.NewRouter(),
		defaultLang: "en",
		logger:      slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.kernel = NewKernel(a.bus, a.logger)

	a.registerLifecycle()
	a.setupRoutes()
	return a
}

// Bus exposes the event bus for handler registration.
func (a *App) Bus() *eventbus.Bus { return a.bus }

// Sessions returns the session manager, nil when none is configured.
func (a *App) Sessions() *SessionManager { return a.sessions }

// HandleRoute registers fn for a route key ("admin", "admin+users",
// "main"). The handler receives the invocation Context and the path
// segments left after the key. A returned error fails the dispatch and
// the kernel answers 500.
func (a *App) HandleRoute(key string, fn func(c *Context, segments ...string) error) {
	a.bus.On(routePrefix+key, func(ctx context.Context, args ...any) eventbus.Result {
		c, ok := FromContext(ctx)
		if !ok {
			return eventbus.Failure()
		}
		segments := make([]string, 0, len(args))
		for _, arg := range args {
			if s, ok := arg.(string); ok {
				segments = append(segments, s)
			}
		}
		if err := fn(c, segments...); err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				c.req.SetStatus(httpErr.Code)
				return eventbus.OK()
			}
			c.Logger().ErrorContext(ctx, "route handler error",
				slog.String("route", key),
				slog.Any("error", err),
			)
			return eventbus.Failure()
		}
		return eventbus.OK()
	})
}

// registerLifecycle installs the kernel's own bus handlers.
func (a *App) registerLifecycle() {
	if a.sessions != nil {
		a.bus.Register("startup", startupSessionPriority, func(ctx context.Context, _ ...any) eventbus.Result {
			c, ok := FromContext(ctx)
			if !ok {
				return eventbus.OK()
			}
			if err := a.sessions.Startup(ctx, c); err != nil {
				a.logger.ErrorContext(ctx, "session startup failed", slog.Any("error", err))
				return eventbus.Failure()
			}
			return eventbus.OK()
		})
		a.bus.On("shutdown", func(ctx context.Context, _ ...any) eventbus.Result {
			if c, ok := FromContext(ctx); ok {
				a.sessions.Shutdown(ctx, c)
			}
			return eventbus.OK()
		})
		// Dispatched after an account change so the acting principal's
		// cached grants do not go stale mid-session.
		a.bus.On("user_changed", func(ctx context.Context, args ...any) eventbus.Result {
			c, ok := FromContext(ctx)
			if !ok || len(args) == 0 {
				return eventbus.OK()
			}
			id, ok := args[0].(int64)
			if !ok || c.engine == nil || c.UserID() != id {
				return eventbus.OK()
			}
			if err := c.engine.Reload(ctx, id); err != nil {
				a.logger.ErrorContext(ctx, "refresh principal grants",
					slog.Int64("user_id", id),
					slog.Any("error", err),
				)
				return eventbus.Failure()
			}
			return eventbus.OK()
		})
	}

	a.bus.Register("startup", startupRouterPriority, func(ctx context.Context, _ ...any) eventbus.Result {
		c, ok := FromContext(ctx)
		if !ok {
			return eventbus.OK()
		}
		a.bus.Dispatch(ctx, "language", c.req.Lang)
		a.bus.Dispatch(ctx, "request", c.req)
		a.kernel.Route(ctx, c.req)
		return eventbus.OK()
	})

	a.bus.On("http_status", func(ctx context.Context, args ...any) eventbus.Result {
		c, ok := FromContext(ctx)
		if !ok || len(args) == 0 {
			return eventbus.OK()
		}
		if code, ok := args[0].(int); ok {
			c.req.SetStatus(code)
		}
		return eventbus.OK()
	})
	a.bus.On("http_redirect", func(ctx context.Context, args ...any) eventbus.Result {
		c, ok := FromContext(ctx)
		if !ok || len(args) == 0 {
			return eventbus.OK()
		}
		if target, ok := args[0].(string); ok {
			c.req.SetRedirect(target)
		}
		return eventbus.OK()
	})
}

// setupRoutes mounts the outer HTTP surface.
func (a *App) setupRoutes() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}
	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	a.router.HandleFunc("/*", a.serveKernel)
}

// serveKernel runs one HTTP request through the event lifecycle.
func (a *App) serveKernel(w http.ResponseWriter, r *http.Request) {
	req := ParsePath(r.URL.Path, a.defaultLang, r.Host, session.ClientIP(r))
	c := newContext(w, r, req, a.logger)
	ctx := WithContext(r.Context(), c)
	// Route handlers dispatch follow-up events through the request
	// context, so it must carry the invocation Context as well.
	c.httpReq = r.WithContext(ctx)

	a.bus.Dispatch(ctx, "startup")
	a.bus.Dispatch(ctx, "shutdown")
	a.finalize(c)
}

// finalize answers requests whose handlers produced no body: pending
// redirects become a 303, everything else gets the recorded status with
// its standard text.
func (a *App) finalize(c *Context) {
	if c.Written() {
		return
	}
	if c.req.Redirect != "" {
		http.Redirect(c.w, c.httpReq, c.req.Redirect, http.StatusSeeOther)
		return
	}
	status := c.req.Status
	c.w.WriteHeader(status)
	if status >= 400 {
		_, _ = c.w.Write([]byte(http.StatusText(status)))
	}
}

// Trigger runs a named event outside HTTP, under a synthesized CLI
// request. It reports the dispatch's pass outcome.
func (a *App) Trigger(ctx context.Context, event string) bool {
	req := NewCLIRequest(a.defaultLang)
	c := newCLIContext(req, cliOutput, a.logger)
	return a.bus.Pass(WithContext(ctx, c), event)
}

// Run starts the HTTP server and blocks until shutdown. Configured job
// workers start before serving and drain during shutdown.
func (a *App) Run(addr string) error {
	startupHooks := a.startupHooks
	shutdownHooks := a.shutdownHooks
	if a.jobs != nil {
		startupHooks = append([]func(context.Context) error{a.jobs.StartFunc()}, startupHooks...)
		shutdownHooks = append(shutdownHooks, a.jobs.Shutdown())
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          a.logger,
		shutdownTimeout: defaultShutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
	})
}

// Router exposes the outer chi router for extra mounts.
func (a *App) Router() chi.Router { return a.router }

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the probe endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides the liveness path. Default /health/live.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides the readiness path. Default /health/ready.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
