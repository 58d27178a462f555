package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterProviderMethodGuards(t *testing.T) {
	router := NewRouterProvider()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Get("/state", ok)
	router.Post("/punch", ok)

	routes := router.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/state", routes[0].Url)
	assert.Equal(t, "/punch", routes[1].Url)

	rec := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/punch", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
