package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	h := NewHealthHandler("v1.2.3", NamedCheck("postgres", func(context.Context) error {
		return fmt.Errorf("must not be called")
	}))
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
}

func TestReadiness_NoCheckers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler("dev").Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	h := NewHealthHandler("dev", NamedCheck("postgres", ok), NamedCheck("redis", ok), NamedCheck("browser", ok))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Len(t, resp.Components, 3)
}

func TestReadiness_OneUnhealthy(t *testing.T) {
	var mu sync.Mutex
	observed := map[string]bool{}
	h := NewHealthHandler("dev",
		NamedCheck("postgres", func(context.Context) error { return nil }),
		NamedCheck("redis", func(context.Context) error { return fmt.Errorf("connection refused") }),
	).WithObserver(func(component string, healthy bool) {
		mu.Lock()
		observed[component] = healthy
		mu.Unlock()
	})

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["redis"].Status)
	assert.Equal(t, "connection refused", resp.Components["redis"].Error)
	assert.Equal(t, map[string]bool{"postgres": true, "redis": false}, observed)
}

//Personal.AI order the ending
