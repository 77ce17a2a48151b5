package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/anvil/pkg/acl"
	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/users"
)

const (
	defaultSessionCookieName = "__sid"
	defaultSessionLifetime   = 30 * 24 * time.Hour
)

// Authenticator verifies credentials. Satisfied by users.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (users.Account, error)
	AuthenticateOnetime(ctx context.Context, email, onetime string) (users.Account, error)
}

// SessionManager owns the session lifecycle of every request: startup
// with fingerprint verification, login with fixation-safe rotation,
// logout and final persistence.
type SessionManager struct {
	store    session.Store
	auth     Authenticator
	aclStore acl.Store
	trail    *audit.Trail
	logger   *slog.Logger

	cookieName string
	domain     string
	lifetime   time.Duration
	sameSite   http.SameSite
	secure     bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// WithSessionCookieName overrides the cookie name. Default "__sid".
func WithSessionCookieName(name string) SessionOption {
	return func(m *SessionManager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithSessionLifetime sets how long sessions live. Default 30 days.
func WithSessionLifetime(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.lifetime = d
		}
	}
}

// WithSessionDomain sets the cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(m *SessionManager) { m.domain = domain }
}

// WithSecureCookies marks session cookies Secure.
func WithSecureCookies() SessionOption {
	return func(m *SessionManager) { m.secure = true }
}

// NewSessionManager wires the manager to its stores.
func NewSessionManager(store session.Store, auth Authenticator, aclStore acl.Store, trail *audit.Trail, logger *slog.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store:      store,
		auth:       auth,
		aclStore:   aclStore,
		trail:      trail,
		logger:     logger,
		cookieName: defaultSessionCookieName,
		lifetime:   defaultSessionLifetime,
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Startup loads the cookie-bound session or starts an anonymous one,
// and binds the principal's ACL engine to the context. A fingerprint
// mismatch resets the session silently; the route never learns.
func (m *SessionManager) Startup(ctx context.Context, c *Context) error {
	r := c.Request()
	fp := ""
	if r != nil {
		fp = session.Fingerprint(r)
	}

	var sess *session.Session
	if r != nil {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			loaded, err := m.store.Get(ctx, cookie.Value)
			switch {
			case err != nil:
				// expired or unknown token, start over
			case loaded.Fingerprint != fp:
				m.logger.WarnContext(ctx, "session fingerprint mismatch",
					slog.String("session_id", loaded.ID),
				)
				if err := m.store.Delete(ctx, loaded.ID); err != nil {
					m.logger.ErrorContext(ctx, "drop hijacked session", slog.Any("error", err))
				}
			default:
				sess = loaded
			}
		}
	}

	if sess == nil {
		var err error
		sess, err = m.create(ctx, c, fp)
		if err != nil {
			return err
		}
	}

	c.sess = sess
	c.engine = acl.NewEngine(m.aclStore)
	if sess.UserID != nil {
		if err := c.engine.Reload(ctx, *sess.UserID); err != nil {
			m.logger.ErrorContext(ctx, "load principal grants",
				slog.Int64("user_id", *sess.UserID),
				slog.Any("error", err),
			)
			c.engine.Clear()
		}
	}
	return nil
}

// Login verifies credentials and attaches the principal. A non-empty
// onetime takes the one-time password path. It reports plain success or
// failure with no detail, and any principal change rotates the session
// first so a fixed cookie cannot carry over. After attachment the
// principal must still hold the login right; a banned account fails
// here even with a correct password.
func (m *SessionManager) Login(ctx context.Context, c *Context, identifier, secret, onetime string) bool {
	var (
		acct users.Account
		err  error
	)
	if onetime != "" {
		acct, err = m.auth.AuthenticateOnetime(ctx, identifier, onetime)
	} else {
		acct, err = m.auth.Authenticate(ctx, identifier, secret)
	}
	if err != nil {
		return false
	}

	if c.UserID() != acct.ID {
		if m.trail != nil {
			if err := m.trail.Log(ctx, loginEntry(acct, c.req.RemoteIP)); err != nil {
				m.logger.ErrorContext(ctx, "audit login entry", slog.Any("error", err))
			}
		}
		if err := m.reset(ctx, c); err != nil {
			m.logger.ErrorContext(ctx, "rotate session on login", slog.Any("error", err))
			return false
		}
	}

	c.sess.UserID = &acct.ID
	c.sess.MarkDirty()

	if err := c.engine.Reload(ctx, acct.ID); err != nil {
		m.logger.ErrorContext(ctx, "load grants after login", slog.Any("error", err))
		m.discard(ctx, c)
		return false
	}
	if !c.engine.Can("login", acl.WildcardType, acl.WildcardID) {
		m.discard(ctx, c)
		return false
	}
	return true
}

// loginEntry shapes the login audit record the way the trail's
// LastLogin lookup and the user_seen binding expect it: a "login"
// action on the user object itself.
func loginEntry(acct users.Account, ip string) audit.Entry {
	return audit.Entry{
		UserID:       acct.ID,
		ActingUserID: acct.ID,
		ObjectType:   "user",
		ObjectID:     &acct.ID,
		Action:       "login",
		IP:           ip,
	}
}

// Logout resets to an anonymous session.
func (m *SessionManager) Logout(ctx context.Context, c *Context) {
	m.discard(ctx, c)
}

// Shutdown persists session changes at the end of the request.
func (m *SessionManager) Shutdown(ctx context.Context, c *Context) {
	sess := c.sess
	if sess == nil {
		return
	}
	switch {
	case sess.IsNew():
		if err := m.store.Create(ctx, sess); err != nil {
			m.logger.ErrorContext(ctx, "persist new session", slog.Any("error", err))
			return
		}
		sess.ClearNew()
		sess.ClearDirty()
	case sess.IsDirty():
		if err := m.store.Update(ctx, sess); err != nil {
			m.logger.ErrorContext(ctx, "persist session", slog.Any("error", err))
			return
		}
		sess.ClearDirty()
	default:
		if err := m.store.Touch(ctx, sess.ID, time.Now()); err != nil {
			m.logger.ErrorContext(ctx, "touch session", slog.Any("error", err))
		}
	}
}

// DropUserSessions kills every session of a user, for bans and "logout
// everywhere".
func (m *SessionManager) DropUserSessions(ctx context.Context, userID int64) error {
	return m.store.DeleteByUserID(ctx, userID)
}

// reset rotates ID and token while keeping the client binding, then
// swaps the fresh session into the context.
func (m *SessionManager) reset(ctx context.Context, c *Context) error {
	old := c.sess
	fresh, err := m.create(ctx, c, old.Fingerprint)
	if err != nil {
		return err
	}
	if !old.IsNew() {
		if err := m.store.Delete(ctx, old.ID); err != nil {
			m.logger.ErrorContext(ctx, "drop rotated session", slog.Any("error", err))
		}
	}
	c.sess = fresh
	if c.engine != nil {
		c.engine.Clear()
	}
	return nil
}

// discard is reset with error logging only; the session always ends up
// anonymous.
func (m *SessionManager) discard(ctx context.Context, c *Context) {
	if err := m.reset(ctx, c); err != nil {
		m.logger.ErrorContext(ctx, "reset session", slog.Any("error", err))
	}
}

// create builds a fresh anonymous session bound to the client and sets
// its cookie.
func (m *SessionManager) create(_ context.Context, c *Context, fp string) (*session.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	sess := session.New(uuid.NewString(), token, time.Now().Add(m.lifetime))
	sess.Fingerprint = fp
	if r := c.Request(); r != nil {
		sess.IP = session.ClientIP(r)
		sess.UserAgent = r.UserAgent()
	} else {
		sess.IP = c.req.RemoteIP
	}
	m.writeCookie(c, token)
	return sess, nil
}

func (m *SessionManager) writeCookie(c *Context, token string) {
	if c.w == nil {
		return
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
