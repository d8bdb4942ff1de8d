// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "database", Checker: CheckerFunc(ok)},
		Dependency{Name: "redis", Checker: CheckerFunc(ok)},
	)

	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.Equal(t, "redis", body.Checks[1].Name)
}

func TestReadinessDegradedWhenDependencyFails(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "database", Checker: CheckerFunc(ok)},
		Dependency{Name: "uploads", Checker: CheckerFunc(down)},
		Dependency{Name: "redis"},
	)

	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[1].Healthy)
	assert.Equal(t, "redis checker not configured", body.Checks[2].Message)
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler()
	h.SetShutdown(true)

	rec, body := get(t, h, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body.Status)

	rec, _ = get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotReady(t *testing.T) {
	h := NewHandler()
	h.SetReady(false)

	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Status)
}
