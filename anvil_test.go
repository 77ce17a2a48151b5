package anvil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil"
)

func TestFacadeServesRoutes(t *testing.T) {
	t.Parallel()

	app := anvil.New(anvil.WithHealth())
	app.HandleRoute("hello", func(c *anvil.Context, segments ...string) error {
		if len(segments) == 0 {
			return anvil.ErrNotFound
		}
		return c.String(http.StatusOK, "hello %s", segments[0])
	})

	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/ada", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello ada", w.Body.String())

	w = httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	app.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
