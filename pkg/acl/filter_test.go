package acl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/acl"
)

func TestRowFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nothing loaded matches no rows", func(t *testing.T) {
		t.Parallel()

		engine := acl.NewEngine(newMemStore())
		f := engine.RowFilter("view", "article")

		assert.True(t, f.Empty())
		assert.Equal(t, "FALSE", f.SQL("id"))
	})

	t.Run("wildcard grant matches all rows", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "article", ObjectID: 0}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		f := engine.RowFilter("view", "article")
		assert.True(t, f.All())
		assert.Equal(t, "TRUE", f.SQL("id"))
	})

	t.Run("literal grants become a sorted allow list", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "article", ObjectID: 9}))
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "article", ObjectID: 3}))
		require.NoError(t, store.AddRoleGrant(ctx, "editor", acl.Grant{Action: "*", ObjectType: "article", ObjectID: 5}))
		require.NoError(t, store.AddMembership(ctx, 7, "editor"))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		f := engine.RowFilter("view", "article")
		assert.Equal(t, []int64{3, 5, 9}, f.IDs())
		assert.Equal(t, "id IN (3,5,9)", f.SQL("id"))
	})

	t.Run("single id renders as equality", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "article", ObjectID: 9}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		assert.Equal(t, "articles.id = 9", engine.RowFilter("view", "article").SQL("articles.id"))
	})

	t.Run("unrelated grants do not leak in", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "edit", ObjectType: "article", ObjectID: 2}))
		require.NoError(t, store.AddUserGrant(ctx, 7, acl.Grant{Action: "view", ObjectType: "report", ObjectID: 4}))

		engine := acl.NewEngine(store)
		require.NoError(t, engine.Reload(ctx, 7))

		assert.True(t, engine.RowFilter("view", "article").Empty())
	})
}
