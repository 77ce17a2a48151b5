package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryRestricted(t *testing.T) {
	t.Parallel()

	assert.False(t, Query{}.restricted())
	assert.False(t, Query{Newest: true, Max: 10}.restricted())

	uid := int64(7)
	oid := int64(3)
	assert.True(t, Query{UserID: &uid}.restricted())
	assert.True(t, Query{ObjectType: "article"}.restricted())
	assert.True(t, Query{ObjectID: &oid}.restricted())
	assert.True(t, Query{Actions: []string{"login"}}.restricted())
	assert.True(t, Query{FieldName: "email"}.restricted())
	assert.True(t, Query{Begin: time.Now()}.restricted())
	assert.True(t, Query{End: time.Now()}.restricted())
}

func TestQueryBuild(t *testing.T) {
	t.Parallel()

	t.Run("user id matches actor or user object", func(t *testing.T) {
		t.Parallel()

		uid := int64(7)
		sql, args := Query{UserID: &uid}.build()

		assert.Contains(t, sql, "(user_id = $1 OR (object_type = 'user' AND object_id = $1))")
		assert.Equal(t, []any{int64(7)}, args)
		assert.Contains(t, sql, "ORDER BY id ASC")
		assert.NotContains(t, sql, "LIMIT")
	})

	t.Run("multiple actions use ANY", func(t *testing.T) {
		t.Parallel()

		sql, args := Query{Actions: []string{"login", "created"}}.build()

		assert.Contains(t, sql, "action = ANY($1)")
		assert.Equal(t, []any{[]string{"login", "created"}}, args)
	})

	t.Run("single action uses equality", func(t *testing.T) {
		t.Parallel()

		sql, args := Query{Actions: []string{"login"}}.build()

		assert.Contains(t, sql, "action = $1")
		assert.Equal(t, []any{"login"}, args)
	})

	t.Run("full restriction set", func(t *testing.T) {
		t.Parallel()

		oid := int64(3)
		begin := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
		q := Query{
			ObjectType: "article",
			ObjectID:   &oid,
			FieldName:  "title",
			Begin:      begin,
			End:        end,
			Newest:     true,
			Max:        25,
		}
		sql, args := q.build()

		assert.Contains(t, sql, "object_type = $1")
		assert.Contains(t, sql, "object_id = $2")
		assert.Contains(t, sql, "field_name = $3")
		assert.Contains(t, sql, "ts >= $4")
		assert.Contains(t, sql, "ts <= $5")
		assert.Contains(t, sql, "ORDER BY id DESC")
		assert.Contains(t, sql, "LIMIT $6")
		assert.Equal(t, []any{"article", int64(3), "title", begin, end, 25}, args)
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}

	assert.Len(t, truncate(string(long), valueLimit), valueLimit)
	assert.Equal(t, "short", truncate("short", valueLimit))
}
