package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/engine"
	"github.com/donaldgifford/restock-tracker/internal/notify"
)

func testRouter(t *testing.T, withSched bool) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.NewEngine(nil, nil, notify.NewNoOpNotifier(log), engine.WithLogger(log))

	d := routerDeps{Engine: eng, Secret: "s3cret", SweepTimeout: time.Minute, Log: log}
	if withSched {
		sched, err := engine.NewScheduler(eng, time.Hour, 0, log)
		require.NoError(t, err)
		d.Sched = sched
	}
	return newRouter(d)
}

func serve(h http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		withSched  bool
		method     string
		path       string
		auth       string
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "readyz without schedule", method: http.MethodGet, path: "/readyz", wantStatus: http.StatusOK},
		{name: "readyz before scheduler start", withSched: true, method: http.MethodGet, path: "/readyz", wantStatus: http.StatusServiceUnavailable},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "openapi", method: http.MethodGet, path: "/openapi.json", wantStatus: http.StatusOK},
		{name: "swagger ui", method: http.MethodGet, path: "/swagger/index.html", wantStatus: http.StatusOK},
		{name: "status", method: http.MethodGet, path: "/api/v1/status", wantStatus: http.StatusOK},
		{name: "catalog", method: http.MethodGet, path: "/api/v1/catalog", wantStatus: http.StatusOK},
		{name: "sweep without token", method: http.MethodPost, path: "/api/v1/sweep", wantStatus: http.StatusUnauthorized},
		{name: "sweep with token", method: http.MethodPost, path: "/api/v1/sweep", auth: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "feed scan via GET", method: http.MethodGet, path: "/api/v1/feed-scan", auth: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(testRouter(t, tt.withSched), tt.method, tt.path, tt.auth)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_SweepBody(t *testing.T) {
	t.Parallel()

	rec := serve(testRouter(t, false), http.MethodPost, "/api/v1/sweep", "Bearer s3cret")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Stats   map[string]int `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Stock check completed", body.Message)
	assert.Equal(t, map[string]int{"checked": 0, "alerts": 0, "errors": 0}, body.Stats)
}

func TestRouter_StatusNextSweep(t *testing.T) {
	t.Parallel()

	rec := serve(testRouter(t, false), http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "restock-tracker", body["service"])
	assert.NotContains(t, body, "next_sweep")
}
