package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/anvil/pkg/acl"
	"github.com/dmitrymomot/anvil/pkg/session"
)

// Component is anything that renders itself, compatible with
// templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context carries one invocation's state: the parsed request, the
// session, the principal's ACL engine and the response writer. Route
// handlers reach it through FromContext.
type Context struct {
	req     *Request
	httpReq *http.Request
	w       *ResponseWriter
	out     io.Writer // CLI output when there is no HTTP response
	sess    *session.Session
	engine  *acl.Engine
	logger  *slog.Logger
}

type contextKey struct{}

// WithContext attaches c to a context.Context for bus handlers.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext recovers the invocation Context. The second return is
// false outside a kernel-driven dispatch.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}

// newContext builds the HTTP variant.
func newContext(w http.ResponseWriter, r *http.Request, req *Request, logger *slog.Logger) *Context {
	return &Context{
		req:     req,
		httpReq: r,
		w:       NewResponseWriter(w),
		logger:  logger,
	}
}

// newCLIContext builds the command-line variant; body output goes to
// out.
func newCLIContext(req *Request, out io.Writer, logger *slog.Logger) *Context {
	return &Context{req: req, out: out, logger: logger}
}

// Req returns the kernel request with its routing state and warnings.
func (c *Context) Req() *Request { return c.req }

// Request returns the underlying *http.Request, nil for CLI runs.
func (c *Context) Request() *http.Request { return c.httpReq }

// Response returns the wrapped response writer, nil for CLI runs.
func (c *Context) Response() *ResponseWriter { return c.w }

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Session returns the current session, nil before session startup ran.
func (c *Context) Session() *session.Session { return c.sess }

// ACL returns the principal's permission engine, nil before session
// startup ran. A nil engine means every decision denies.
func (c *Context) ACL() *acl.Engine { return c.engine }

// UserID returns the authenticated user's ID, zero when anonymous.
func (c *Context) UserID() int64 {
	if c.sess == nil || c.sess.UserID == nil {
		return 0
	}
	return *c.sess.UserID
}

// IsAuthenticated reports whether a user is bound to the session.
func (c *Context) IsAuthenticated() bool {
	return c.sess != nil && c.sess.IsAuthenticated()
}

// Can asks the principal's engine for a permission decision. Anonymous
// requests always deny.
func (c *Context) Can(action, objectType string, objectID int64) bool {
	if c.engine == nil {
		return false
	}
	return c.engine.Can(action, objectType, objectID)
}

// Query returns a query parameter, empty when absent or in CLI runs.
func (c *Context) Query(name string) string {
	if c.httpReq == nil {
		return ""
	}
	return c.httpReq.URL.Query().Get(name)
}

// QueryDefault returns a query parameter or the fallback.
func (c *Context) QueryDefault(name, fallback string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return fallback
}

// Form returns a form value, parsing the body on first access.
func (c *Context) Form(name string) string {
	if c.httpReq == nil {
		return ""
	}
	if c.httpReq.PostForm == nil {
		_ = c.httpReq.ParseForm()
	}
	return c.httpReq.PostFormValue(name)
}

// Header returns a request header, empty for CLI runs.
func (c *Context) Header(name string) string {
	if c.httpReq == nil {
		return ""
	}
	return c.httpReq.Header.Get(name)
}

// SetHeader sets a response header before the first write.
func (c *Context) SetHeader(name, value string) {
	if c.w == nil {
		return
	}
	c.w.Header().Set(name, value)
}

// String writes a plain text body with the given status.
func (c *Context) String(status int, format string, args ...any) error {
	body := fmt.Sprintf(format, args...)
	if c.w == nil {
		_, err := io.WriteString(c.out, body)
		return err
	}
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(status)
	_, err := io.WriteString(c.w, body)
	return err
}

// HTML writes an HTML body with the given status.
func (c *Context) HTML(status int, body string) error {
	if c.w == nil {
		_, err := io.WriteString(c.out, body)
		return err
	}
	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(status)
	_, err := io.WriteString(c.w, body)
	return err
}

// JSON encodes v with the given status.
func (c *Context) JSON(status int, v any) error {
	if c.w == nil {
		return json.NewEncoder(c.out).Encode(v)
	}
	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(status)
	return json.NewEncoder(c.w).Encode(v)
}

// Render executes a component with the given status.
func (c *Context) Render(ctx context.Context, status int, component Component) error {
	if c.w == nil {
		return component.Render(ctx, c.out)
	}
	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(status)
	return component.Render(ctx, c.w)
}

// RedirectTo records a redirect on the request; the kernel finalizes it
// after the handlers ran.
func (c *Context) RedirectTo(target string) {
	c.req.SetRedirect(target)
}

// Written reports whether any response went out.
func (c *Context) Written() bool {
	return c.w != nil && c.w.Written()
}
