package anvil

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/acl"
	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/eventbus"
	"github.com/dmitrymomot/anvil/pkg/session"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle: the event bus, the
	// segment router and the HTTP server.
	App = internal.App

	// Context carries one invocation's state into route handlers.
	Context = internal.Context

	// Request is the kernel's view of one invocation.
	Request = internal.Request

	// Warning is one entry in the request's warnings ledger.
	Warning = internal.Warning

	// Severity grades a warning.
	Severity = internal.Severity

	// Component is the interface for renderable templates.
	Component = internal.Component

	// ResponseWriter wraps http.ResponseWriter with write tracking.
	ResponseWriter = internal.ResponseWriter

	// HTTPError carries a status code out of a route handler.
	HTTPError = internal.HTTPError

	// Option configures the application.
	Option = internal.Option

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionManager owns the session lifecycle of every request.
	SessionManager = internal.SessionManager

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Authenticator verifies login credentials.
	Authenticator = internal.Authenticator

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ACLStore persists grants, roles and memberships.
	ACLStore = acl.Store

	// AuditTrail records and queries the append-only transactions table.
	AuditTrail = audit.Trail

	// Bus is the named-event dispatcher at the center of the kernel.
	Bus = eventbus.Bus

	// Result is a bus handler's outcome.
	Result = eventbus.Result

	// Handler is a bus event handler.
	Handler = eventbus.Handler
)

// Warning severities.
const (
	SeverityFatal   = internal.SeverityFatal
	SeverityWarning = internal.SeverityWarning
	SeverityInfo    = internal.SeverityInfo
	SeveritySuccess = internal.SeveritySuccess
)

// StatusSessionExpired is answered on form token mismatch.
const StatusSessionExpired = internal.StatusSessionExpired

// Route handler errors.
var (
	ErrNotFound       = internal.ErrNotFound
	ErrForbidden      = internal.ErrForbidden
	ErrSessionExpired = internal.ErrSessionExpired
)

// New creates an application with the given options. Register route
// and event handlers before calling Run:
//
//	app := anvil.New(
//	    anvil.WithLogger(log),
//	    anvil.WithSessionManager(sessions),
//	)
//	app.HandleRoute("articles", func(c *anvil.Context, segments ...string) error {
//	    return c.String(200, "hello")
//	})
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewSessionManager wires cookie sessions to their stores. Pass the
// result to WithSessionManager.
func NewSessionManager(store session.Store, auth Authenticator, aclStore ACLStore, trail *AuditTrail, logger *slog.Logger, opts ...SessionOption) *SessionManager {
	return internal.NewSessionManager(store, auth, aclStore, trail, logger, opts...)
}

// NewHTTPError creates an HTTPError with the given status code and
// message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// NewBus creates a standalone event bus. New already wires one into the
// App; this is for tests and tooling.
func NewBus() *Bus {
	return eventbus.New()
}

// FromContext recovers the invocation Context inside a bus handler. The
// second return is false outside a kernel-driven dispatch.
func FromContext(ctx context.Context) (*Context, bool) {
	return internal.FromContext(ctx)
}
