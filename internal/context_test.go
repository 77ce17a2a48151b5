package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubComponent struct {
	body string
}

func (c stubComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, c.body)
	return err
}

func TestContextResponses(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		c, w := testHTTPContext("/articles")
		require.NoError(t, c.String(http.StatusOK, "hello %s", "world"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello world", w.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.True(t, c.Written())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		c, w := testHTTPContext("/articles")
		require.NoError(t, c.JSON(http.StatusCreated, map[string]int{"id": 7}))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var got map[string]int
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 7, got["id"])
	})

	t.Run("component render", func(t *testing.T) {
		t.Parallel()
		c, w := testHTTPContext("/articles")
		require.NoError(t, c.Render(context.Background(), http.StatusOK, stubComponent{body: "<h1>ok</h1>"}))

		assert.Equal(t, "<h1>ok</h1>", w.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("redirect is recorded not written", func(t *testing.T) {
		t.Parallel()
		c, _ := testHTTPContext("/articles")
		c.RedirectTo("/login")

		assert.Equal(t, "/login", c.Req().Redirect)
		assert.False(t, c.Written())
	})
}

func TestContextRequestAccess(t *testing.T) {
	t.Parallel()

	t.Run("query", func(t *testing.T) {
		t.Parallel()
		c, _ := testHTTPContext("/articles?page=3")
		assert.Equal(t, "3", c.Query("page"))
		assert.Equal(t, "10", c.QueryDefault("limit", "10"))
	})

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		form := url.Values{"email": {"ada@example.com"}}
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req := ParsePath(r.URL.Path, "en", r.Host, "10.0.0.1")
		c := newContext(httptest.NewRecorder(), r, req, testLogger())

		assert.Equal(t, "ada@example.com", c.Form("email"))
	})

	t.Run("headers", func(t *testing.T) {
		t.Parallel()
		c, w := testHTTPContext("/articles")
		assert.Equal(t, "test-agent", c.Header("User-Agent"))

		c.SetHeader("X-Request-Id", "abc")
		assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
	})
}

func TestCLIContext(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	req := NewCLIRequest("en")
	c := newCLIContext(req, &out, testLogger())

	assert.Nil(t, c.Request())
	assert.Nil(t, c.Response())
	assert.Empty(t, c.Query("page"))
	assert.False(t, c.Written())

	require.NoError(t, c.String(http.StatusOK, "done"))
	assert.Equal(t, "done", out.String())
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	c, _ := testHTTPContext("/articles")
	got, ok := FromContext(WithContext(context.Background(), c))
	require.True(t, ok)
	assert.Same(t, c, got)
}
