package internal

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/acl"
	"github.com/dmitrymomot/anvil/pkg/eventbus"
	"github.com/dmitrymomot/anvil/pkg/users"
)

func serve(t *testing.T, a *App, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	a.Router().ServeHTTP(w, r)
	return w
}

func TestAppServe(t *testing.T) {
	t.Parallel()

	t.Run("route handler writes the body", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.HandleRoute("articles", func(c *Context, segments ...string) error {
			return c.String(http.StatusOK, "article %s", segments[0])
		})

		w := serve(t, a, "/articles/42")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "article 42", w.Body.String())
	})

	t.Run("unmatched path answers 404", func(t *testing.T) {
		t.Parallel()
		a := New()

		w := serve(t, a, "/nowhere")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, http.StatusText(http.StatusNotFound), w.Body.String())
	})

	t.Run("handler error answers 500", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.HandleRoute("broken", func(*Context, ...string) error {
			return assert.AnError
		})

		w := serve(t, a, "/broken")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("http error sets its own status", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.HandleRoute("secret", func(*Context, ...string) error {
			return ErrForbidden
		})

		w := serve(t, a, "/secret")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("recorded redirect finalizes as 303", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.HandleRoute("login", func(c *Context, _ ...string) error {
			c.RedirectTo("/")
			return nil
		})

		w := serve(t, a, "/login")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("http_status event records on the request", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.HandleRoute("teapot", func(c *Context, _ ...string) error {
			a.Bus().Dispatch(WithContext(context.Background(), c), "http_status", 418)
			return nil
		})

		w := serve(t, a, "/teapot")
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("language event sees the parsed language", func(t *testing.T) {
		t.Parallel()
		a := New()
		var lang string
		a.Bus().On("language", func(_ context.Context, args ...any) eventbus.Result {
			lang, _ = args[0].(string)
			return eventbus.OK()
		})
		a.HandleRoute("main", func(c *Context, _ ...string) error {
			return c.String(http.StatusOK, "ok")
		})

		serve(t, a, "/fr/articles")
		assert.Equal(t, "fr", lang)
	})
}

func TestAppUserChanged(t *testing.T) {
	t.Parallel()

	newApp := func() (*App, *stubACLStore, users.Account) {
		acct := testAccount()
		aclStore := loginGrants(acct.ID)
		sessions := NewSessionManager(newMemSessionStore(), &stubAuth{account: acct}, aclStore, nil, testLogger())
		return New(WithSessionManager(sessions)), aclStore, acct
	}

	t.Run("refreshes the acting principal's grants", func(t *testing.T) {
		t.Parallel()
		a, aclStore, acct := newApp()

		a.HandleRoute("profile", func(c *Context, _ ...string) error {
			ctx := c.Request().Context()
			require.True(t, a.Sessions().Login(ctx, c, acct.Email, "secret", ""))
			require.False(t, c.Can("publish", "article", 1))

			aclStore.grants[acct.ID] = append(aclStore.grants[acct.ID],
				acl.Grant{Action: "publish", ObjectType: "article", ObjectID: 1})
			a.Bus().Dispatch(ctx, "user_changed", acct.ID)

			assert.True(t, c.Can("publish", "article", 1))
			return nil
		})

		w := serve(t, a, "/profile")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("another user's change leaves the principal alone", func(t *testing.T) {
		t.Parallel()
		a, aclStore, acct := newApp()

		a.HandleRoute("profile", func(c *Context, _ ...string) error {
			ctx := c.Request().Context()
			require.True(t, a.Sessions().Login(ctx, c, acct.Email, "secret", ""))

			aclStore.grants[acct.ID] = append(aclStore.grants[acct.ID],
				acl.Grant{Action: "publish", ObjectType: "article", ObjectID: 1})
			a.Bus().Dispatch(ctx, "user_changed", acct.ID+1)

			assert.False(t, c.Can("publish", "article", 1))
			return nil
		})

		w := serve(t, a, "/profile")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAppTrigger(t *testing.T) {
	t.Parallel()

	a := New()
	ran := false
	a.Bus().On("install", func(ctx context.Context, _ ...any) eventbus.Result {
		c, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "127.0.0.1", c.Req().RemoteIP)
		ran = true
		return eventbus.OK()
	})

	assert.True(t, a.Trigger(context.Background(), "install"))
	assert.True(t, ran)

	a.Bus().On("failing", func(context.Context, ...any) eventbus.Result {
		return eventbus.Failure()
	})
	assert.False(t, a.Trigger(context.Background(), "failing"))
}

func TestAppRunCLI(t *testing.T) {
	t.Parallel()

	t.Run("trigger flag dispatches and exits clean", func(t *testing.T) {
		t.Parallel()
		a := New()
		ran := false
		a.Bus().On("install", func(context.Context, ...any) eventbus.Result {
			ran = true
			return eventbus.OK()
		})

		var out bytes.Buffer
		assert.Equal(t, 0, a.RunCLI([]string{"-t", "install"}, &out))
		assert.True(t, ran)
	})

	t.Run("failed trigger exits 1", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.Bus().On("install", func(context.Context, ...any) eventbus.Result {
			return eventbus.Failure()
		})

		var out bytes.Buffer
		assert.Equal(t, 1, a.RunCLI([]string{"-t", "install"}, &out))
	})

	t.Run("no action exits 1", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		assert.Equal(t, 1, New().RunCLI(nil, &out))
	})

	t.Run("version exits 0", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		assert.Equal(t, 0, New().RunCLI([]string{"-V"}, &out))
		assert.Contains(t, out.String(), Version)
	})
}

func TestAppHealthEndpoints(t *testing.T) {
	t.Parallel()

	a := New(WithHealth())
	w := serve(t, a, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}
