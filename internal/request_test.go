package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	t.Run("plain route", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/admin/users/7", "en", "example.com", "10.0.0.1")
		assert.Equal(t, "en", req.Lang)
		assert.Empty(t, req.Base)
		assert.Equal(t, []string{"admin", "users", "7"}, req.Segments)
		assert.False(t, req.Binary)
		assert.Equal(t, 200, req.Status)
	})

	t.Run("language segment consumed", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/FR/articles", "en", "example.com", "10.0.0.1")
		assert.Equal(t, "fr", req.Lang)
		assert.Equal(t, "/fr", req.Base)
		assert.Equal(t, []string{"articles"}, req.Segments)
	})

	t.Run("default language keeps empty base", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/en/articles", "en", "example.com", "10.0.0.1")
		assert.Equal(t, "en", req.Lang)
		assert.Empty(t, req.Base)
	})

	t.Run("binary flag", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/=bin/report/42", "en", "example.com", "10.0.0.1")
		assert.True(t, req.Binary)
		assert.Equal(t, []string{"report", "42"}, req.Segments)
	})

	t.Run("unknown flag consumed without effect", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/=raw/report", "en", "example.com", "10.0.0.1")
		assert.False(t, req.Binary)
		assert.Equal(t, []string{"report"}, req.Segments)
	})

	t.Run("empty path routes to main", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/", "en", "example.com", "10.0.0.1")
		assert.Equal(t, []string{"main"}, req.Segments)
	})

	t.Run("language then flag then nothing", func(t *testing.T) {
		t.Parallel()
		req := ParsePath("/de/=bin", "en", "example.com", "10.0.0.1")
		assert.Equal(t, "de", req.Lang)
		assert.True(t, req.Binary)
		assert.Equal(t, []string{"main"}, req.Segments)
	})
}

func TestNewCLIRequest(t *testing.T) {
	t.Parallel()

	req := NewCLIRequest("en")
	assert.Equal(t, "en", req.Lang)
	assert.Equal(t, "127.0.0.1", req.RemoteIP)
	assert.Equal(t, []string{"main"}, req.Segments)
	assert.Equal(t, 200, req.Status)
}

func TestRequestSetStatus(t *testing.T) {
	t.Parallel()

	req := NewCLIRequest("en")

	req.SetStatus(404)
	assert.Equal(t, 404, req.Status)

	req.SetStatus(99)
	assert.Equal(t, 404, req.Status)

	req.SetStatus(600)
	assert.Equal(t, 404, req.Status)

	req.SetStatus(599)
	assert.Equal(t, 599, req.Status)
}

func TestRequestWarnings(t *testing.T) {
	t.Parallel()

	req := NewCLIRequest("en")
	require.True(t, req.HasNoFatalWarnings())

	req.Warn(SeverityInfo, "saved")
	req.Warn(SeveritySuccess, "sent", "outbox")
	assert.True(t, req.HasNoFatalWarnings())

	req.Warn(SeverityFatal, "email_invalid", "nope")
	assert.False(t, req.HasNoFatalWarnings())

	require.Len(t, req.Warnings, 3)
	assert.Equal(t, "saved", req.Warnings[0].Code)
	assert.Equal(t, []any{"outbox"}, req.Warnings[1].Args)
}
