package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/mocks"
	"github.com/jsamuelsen/quotebook/internal/platform/metrics"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func probeRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	h.Register(router)

	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, BuildInfo{
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildTime: "2024-01-15T10:00:00Z",
		GoVersion: runtime.Version(),
	}, bi)
}

func TestHealthHandler_Liveness(t *testing.T) {
	// The registry mock fails the test if liveness ever consults it.
	router := probeRouter(NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}))

	w := get(router, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		result     *ports.HealthResult
		wantStatus int
	}{
		{
			name: "store ready",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{"store": {Status: ports.HealthStatusHealthy}},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "store not ready",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"store": {Status: ports.HealthStatusUnhealthy, Message: "mongo store unavailable: not ready"},
				},
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "nothing registered",
			result:     &ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result)

			w := get(probeRouter(NewHealthHandler(registry, BuildInfo{})), "/-/ready")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			var body ports.HealthResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.result.Status, body.Status)
			assert.Len(t, body.Checks, len(tt.result.Checks))
		})
	}
}

func TestHealthHandler_ReadinessWithRealRegistry(t *testing.T) {
	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(ports.HealthCheckerFunc("store", func(_ context.Context) error {
		return errors.New("closed")
	})))

	w := get(probeRouter(NewHealthHandler(registry, BuildInfo{})), "/-/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "closed")
}

func TestHealthHandler_BuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.2.3", "def456", "2024-02-01T12:00:00Z")
	bi.StoreDriver = "sqlite"

	w := get(probeRouter(NewHealthHandler(mocks.NewMockHealthRegistry(t), bi)), "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, bi, resp)
}

func TestHealthHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.ImportItems.WithLabelValues("created").Inc()
	m.StoreReady.WithLabelValues("sqlite").Set(1)

	w := get(probeRouter(NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}).WithGatherer(reg)), "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), `quotebook_import_items_total{result="created"} 1`)
	assert.Contains(t, w.Body.String(), `quotebook_store_ready{backend="sqlite"} 1`)
}

func TestHealthHandler_Register(t *testing.T) {
	router := probeRouter(NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}))

	got := make(map[string]bool)
	for _, r := range router.Routes() {
		got[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics"} {
		assert.True(t, got[want], "missing route %s", want)
	}
}
