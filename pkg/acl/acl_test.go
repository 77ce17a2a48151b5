package acl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/acl"
)

// memStore is an in-memory Store for exercising the engine without a
// database. It is not safe for concurrent use; each test owns its own.
type memStore struct {
	userGrants  map[int64][]acl.Grant
	roleGrants  map[string][]acl.Grant
	memberships map[int64][]string
}

func newMemStore() *memStore {
	return &memStore{
		userGrants:  make(map[int64][]acl.Grant),
		roleGrants:  make(map[string][]acl.Grant),
		memberships: make(map[int64][]string),
	}
}

func (s *memStore) UserGrants(_ context.Context, userID int64) ([]acl.Grant, error) {
	return append([]acl.Grant(nil), s.userGrants[userID]...), nil
}

func (s *memStore) RoleGrants(_ context.Context, userID int64) ([]acl.Grant, error) {
	var out []acl.Grant
	for _, role := range s.memberships[userID] {
		out = append(out, s.roleGrants[role]...)
	}
	return out, nil
}

func (s *memStore) Roles(_ context.Context, userID int64) ([]string, error) {
	return append([]string(nil), s.memberships[userID]...), nil
}

func (s *memStore) AddUserGrant(_ context.Context, userID int64, g acl.Grant) error {
	for _, have := range s.userGrants[userID] {
		if have == g {
			return nil
		}
	}
	s.userGrants[userID] = append(s.userGrants[userID], g)
	return nil
}

func (s *memStore) DeleteUserGrant(_ context.Context, userID int64, g acl.Grant) error {
	s.userGrants[userID] = deleteGrant(s.userGrants[userID], g)
	return nil
}

func (s *memStore) AddRoleGrant(_ context.Context, role string, g acl.Grant) error {
	for _, have := range s.roleGrants[role] {
		if have == g {
			return nil
		}
	}
	s.roleGrants[role] = append(s.roleGrants[role], g)
	return nil
}

func (s *memStore) DeleteRoleGrant(_ context.Context, role string, g acl.Grant) error {
	s.roleGrants[role] = deleteGrant(s.roleGrants[role], g)
	return nil
}

func (s *memStore) AddMembership(_ context.Context, userID int64, role string) error {
	for _, have := range s.memberships[userID] {
		if have == role {
			return nil
		}
	}
	s.memberships[userID] = append(s.memberships[userID], role)
	return nil
}

func (s *memStore) DeleteMembership(_ context.Context, userID int64, role string) error {
	out := s.memberships[userID][:0]
	for _, have := range s.memberships[userID] {
		if have != role {
			out = append(out, have)
		}
	}
	s.memberships[userID] = out
	return nil
}

func (s *memStore) WipeUser(_ context.Context, userID int64) error {
	delete(s.userGrants, userID)
	delete(s.memberships, userID)
	return nil
}

func (s *memStore) GrantsOfUser(_ context.Context, userID int64) ([]acl.Grant, error) {
	return append([]acl.Grant(nil), s.userGrants[userID]...), nil
}

func (s *memStore) GrantsOfRole(_ context.Context, role string) ([]acl.Grant, error) {
	return append([]acl.Grant(nil), s.roleGrants[role]...), nil
}

func (s *memStore) MembersOfRole(_ context.Context, role string) ([]int64, error) {
	var ids []int64
	for id, roles := range s.memberships {
		for _, r := range roles {
			if r == role {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func deleteGrant(grants []acl.Grant, g acl.Grant) []acl.Grant {
	out := grants[:0]
	for _, have := range grants {
		if have != g {
			out = append(out, have)
		}
	}
	return out
}

func TestCanDeniesBeforeReload(t *testing.T) {
	t.Parallel()

	engine := acl.NewEngine(newMemStore())

	assert.False(t, engine.Can("view", "article", 1))
	assert.False(t, engine.CanAny("view", "article"))
	assert.False(t, engine.HasRole("admin"))
}

func TestCanDeniesWithZeroGrants(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	require.NoError(t, store.AddMembership(context.Background(), 7, "member"))

	engine := acl.NewEngine(store)
	require.NoError(t, engine.Reload(context.Background(), 7))

	assert.False(t, engine.Can("view", "article", 1))
	assert.True(t, engine.HasRole("member"))
}

func TestCanWildcards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("instance wildcard covers every id", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "edit", ObjectType: "article", ObjectID: 0}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		assert.True(t, engine.Can("edit", "article", 42))
		assert.True(t, engine.Can("edit", "article", 0))
		assert.False(t, engine.Can("edit", "report", 42))
		assert.False(t, engine.Can("delete", "article", 42))
	})

	t.Run("type wildcard covers every type", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "*", ObjectID: 0}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		assert.True(t, engine.Can("view", "article", 42))
		assert.True(t, engine.Can("view", "report", 1))
		assert.True(t, engine.Can("view", "", 0))
		assert.False(t, engine.Can("edit", "article", 42))
	})

	t.Run("action wildcard covers every action", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "*", ObjectType: "article", ObjectID: 3}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		assert.True(t, engine.Can("edit", "article", 3))
		assert.True(t, engine.Can("delete", "article", 3))
		assert.False(t, engine.Can("edit", "article", 4))
	})

	t.Run("full wildcard is superuser", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddRoleGrant(ctx, "admin", acl.Grant{Action: "*", ObjectType: "*", ObjectID: 0}))
		require.NoError(t, store.AddMembership(ctx, 1, "admin"))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 1))

		assert.True(t, engine.Can("anything", "whatever", 999))
		assert.True(t, engine.Can("", "", 0))
	})
}

func TestCanLiteralGrant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "edit", ObjectType: "article", ObjectID: 42}))

	engine := acl.NewEngine(store)
	require.NoError(t, engine.Reload(ctx, 7))

	assert.True(t, engine.Can("edit", "article", 42))
	assert.False(t, engine.Can("edit", "article", 43))
	// An unspecified object ID asks for the instance wildcard, which a
	// literal grant does not satisfy.
	assert.False(t, engine.Can("edit", "article", 0))
	assert.True(t, engine.CanAny("edit", "article"))
	assert.False(t, engine.CanAny("edit", "report"))
}

func TestRolesAreUnionedWithDirectGrants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.AddRoleGrant(ctx, "editor", acl.Grant{Action: "edit", ObjectType: "article", ObjectID: 0}))
	require.NoError(t, store.AddMembership(ctx, 7, "editor"))
	require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "delete", ObjectType: "article", ObjectID: 5}))

	engine := acl.NewEngine(store)
	require.NoError(t, engine.Reload(ctx, 7))

	assert.True(t, engine.Can("edit", "article", 99))
	assert.True(t, engine.Can("delete", "article", 5))
	assert.False(t, engine.Can("delete", "article", 6))
	assert.ElementsMatch(t, []string{"editor"}, engine.Roles())
}

func TestApplyAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("role membership to role is rejected", func(t *testing.T) {
		t.Parallel()

		engine := acl.NewEngine(newMemStore())
		err := engine.Apply(ctx, acl.Role("editor"), acl.Membership("admin"))
		assert.ErrorIs(t, err, acl.ErrInvalidGrant)

		err = engine.Remove(ctx, acl.Role("editor"), acl.Membership("admin"))
		assert.ErrorIs(t, err, acl.ErrInvalidGrant)
	})

	t.Run("duplicate grant is a no-op", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		engine := acl.NewEngine(store)

		require.NoError(t, engine.Apply(ctx, acl.User(7), acl.Right("view", "report", 3)))
		require.NoError(t, engine.Apply(ctx, acl.User(7), acl.Right("view", "report", 3)))

		grants, err := store.GrantsOfUser(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("remove missing grant is a no-op", func(t *testing.T) {
		t.Parallel()

		engine := acl.NewEngine(newMemStore())
		assert.NoError(t, engine.Remove(ctx, acl.User(7), acl.Right("view", "report", 3)))
	})

	t.Run("self grant is visible immediately", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		engine := acl.NewEngine(store)
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "admin", ObjectType: "acl", ObjectID: 0}))
		require.NoError(t, engine.Reload(ctx, 7))

		require.False(t, engine.Can("edit", "article", 1))
		require.NoError(t, engine.Apply(ctx, acl.User(7), acl.Right("edit", "article", 1)))
		assert.True(t, engine.Can("edit", "article", 1))

		require.NoError(t, engine.Remove(ctx, acl.User(7), acl.Right("edit", "article", 1)))
		assert.False(t, engine.Can("edit", "article", 1))
	})

	t.Run("grant via held role is visible immediately", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		engine := acl.NewEngine(store)
		require.NoError(t, store.AddMembership(ctx, 7, "editor"))
		require.NoError(t, engine.Reload(ctx, 7))

		require.NoError(t, engine.Apply(ctx, acl.Role("editor"), acl.Right("edit", "article", 0)))
		assert.True(t, engine.Can("edit", "article", 5))
	})

	t.Run("grant to bystander leaves loaded tree alone", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		engine := acl.NewEngine(store)
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "page", ObjectID: 0}))
		require.NoError(t, engine.Reload(ctx, 7))

		require.NoError(t, engine.Apply(ctx, acl.User(8), acl.Right("edit", "article", 0)))
		assert.False(t, engine.Can("edit", "article", 1))
		assert.Equal(t, int64(7), engine.UserID())
	})
}

func TestBanAndUnban(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()
	engine := acl.NewEngine(store)

	require.NoError(t, store.AddRoleGrant(ctx, "editor", acl.Grant{Action: "edit", ObjectType: "article", ObjectID: 0}))
	require.NoError(t, store.AddRoleGrant(ctx, acl.MemberRole, acl.Grant{Action: "login", ObjectType: "*", ObjectID: 0}))
	require.NoError(t, store.AddMembership(ctx, 7, acl.MemberRole))
	require.NoError(t, store.AddMembership(ctx, 7, "editor"))
	require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "delete", ObjectType: "article", ObjectID: 5}))
	require.NoError(t, engine.Reload(ctx, 7))

	require.NoError(t, engine.Ban(ctx, 7))

	assert.False(t, engine.Can("edit", "article", 1))
	assert.False(t, engine.Can("delete", "article", 5))
	assert.False(t, engine.Can("login", "", 0))
	assert.Empty(t, engine.Roles())

	// Unban restores only the baseline membership, not the pre-ban set.
	require.NoError(t, engine.Unban(ctx, 7))

	assert.True(t, engine.Can("login", "", 0))
	assert.False(t, engine.Can("edit", "article", 1))
	assert.ElementsMatch(t, []string{acl.MemberRole}, engine.Roles())
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "*", ObjectType: "*", ObjectID: 0}))

	engine := acl.NewEngine(store)
	require.NoError(t, engine.Reload(ctx, 7))
	require.True(t, engine.Can("view", "article", 1))

	engine.Clear()

	assert.False(t, engine.Can("view", "article", 1))
	assert.Zero(t, engine.UserID())
}

func TestParseObjectID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), acl.ParseObjectID(""))
	assert.Equal(t, int64(0), acl.ParseObjectID("not a number"))
	assert.Equal(t, int64(42), acl.ParseObjectID("42"))
	assert.Equal(t, int64(-1), acl.ParseObjectID("-1"))
}
