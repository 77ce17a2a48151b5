package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/dmitrymomot/anvil/pkg/acl"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/users"
)

func testLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

// memSessionStore implements session.Store in memory.
type memSessionStore struct {
	byToken map[string]*session.Session
	touched []string
	deleted []string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{byToken: make(map[string]*session.Session)}
}

func (s *memSessionStore) Create(_ context.Context, sess *session.Session) error {
	s.byToken[sess.Token] = sess
	return nil
}

func (s *memSessionStore) Get(_ context.Context, token string) (*session.Session, error) {
	sess, ok := s.byToken[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	cp := *sess
	cp.ClearNew()
	return &cp, nil
}

func (s *memSessionStore) Update(_ context.Context, sess *session.Session) error {
	s.byToken[sess.Token] = sess
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	for token, sess := range s.byToken {
		if sess.ID == id {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *memSessionStore) DeleteByUserID(_ context.Context, userID int64) error {
	for token, sess := range s.byToken {
		if sess.UserID != nil && *sess.UserID == userID {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *memSessionStore) Touch(_ context.Context, id string, _ time.Time) error {
	s.touched = append(s.touched, id)
	return nil
}

func (s *memSessionStore) DeleteExpired(context.Context) (int64, error) { return 0, nil }

// stubAuth authenticates one known account.
type stubAuth struct {
	account users.Account
	err     error
}

func (a *stubAuth) Authenticate(_ context.Context, email, _ string) (users.Account, error) {
	if a.err != nil || email != a.account.Email {
		return users.Account{}, errors.New("invalid credentials")
	}
	return a.account, nil
}

func (a *stubAuth) AuthenticateOnetime(_ context.Context, email, _ string) (users.Account, error) {
	return a.Authenticate(context.Background(), email, "")
}

// stubACLStore hands out fixed direct grants per user; the write side
// is inert.
type stubACLStore struct {
	grants map[int64][]acl.Grant
}

func (s *stubACLStore) UserGrants(_ context.Context, userID int64) ([]acl.Grant, error) {
	return s.grants[userID], nil
}

func (s *stubACLStore) RoleGrants(context.Context, int64) ([]acl.Grant, error) { return nil, nil }
func (s *stubACLStore) Roles(context.Context, int64) ([]string, error)         { return nil, nil }

func (s *stubACLStore) AddUserGrant(context.Context, int64, acl.Grant) error     { return nil }
func (s *stubACLStore) DeleteUserGrant(context.Context, int64, acl.Grant) error  { return nil }
func (s *stubACLStore) AddRoleGrant(context.Context, string, acl.Grant) error    { return nil }
func (s *stubACLStore) DeleteRoleGrant(context.Context, string, acl.Grant) error { return nil }
func (s *stubACLStore) AddMembership(context.Context, int64, string) error       { return nil }
func (s *stubACLStore) DeleteMembership(context.Context, int64, string) error    { return nil }
func (s *stubACLStore) WipeUser(context.Context, int64) error                    { return nil }

func (s *stubACLStore) GrantsOfUser(context.Context, int64) ([]acl.Grant, error) { return nil, nil }
func (s *stubACLStore) GrantsOfRole(context.Context, string) ([]acl.Grant, error) {
	return nil, nil
}
func (s *stubACLStore) MembersOfRole(context.Context, string) ([]int64, error) { return nil, nil }

func testHTTPContext(target string) (*Context, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set("User-Agent", "test-agent")
	r.Header.Set("Accept", "text/html")
	r.Header.Set("Accept-Language", "en")
	req := ParsePath(r.URL.Path, "en", r.Host, session.ClientIP(r))
	w := httptest.NewRecorder()
	c := newContext(w, r, req, testLogger())
	return c, w
}
