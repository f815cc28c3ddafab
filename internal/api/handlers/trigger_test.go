package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/api/handlers"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// fakeRunner implements handlers.FeedSweeper for testing.
type fakeRunner struct {
	sweepStats domain.SweepStats
	feedStats  domain.FeedScanStats
	err        error

	sweeps, scans int
	hadDeadline   bool
}

func (f *fakeRunner) RunSweep(ctx context.Context) (domain.SweepStats, error) {
	f.sweeps++
	_, f.hadDeadline = ctx.Deadline()
	return f.sweepStats, f.err
}

func (f *fakeRunner) ScanConfiguredFeeds(context.Context) (domain.FeedScanStats, error) {
	f.scans++
	return f.feedStats, f.err
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type triggerResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Error     string         `json:"error"`
	Timestamp time.Time      `json:"timestamp"`
	Stats     map[string]int `json:"stats"`
}

func decodeTrigger(t *testing.T, body []byte) triggerResponse {
	t.Helper()
	var r triggerResponse
	require.NoError(t, json.Unmarshal(body, &r))
	return r
}

func newTriggerAPI(t *testing.T, r *fakeRunner, opts ...handlers.TriggerOption) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	opts = append(opts, handlers.WithNowFunc(func() time.Time { return fixedNow }))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(r, opts...))
	return api
}

func TestSweep_Success(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			r := &fakeRunner{sweepStats: domain.SweepStats{Checked: 4, Alerts: 1}}
			api := newTriggerAPI(t, r)

			resp := api.Do(method, "/api/v1/sweep")
			require.Equal(t, http.StatusOK, resp.Code)
			body := decodeTrigger(t, resp.Body.Bytes())
			assert.True(t, body.Success)
			assert.Equal(t, "Stock check completed", body.Message)
			assert.Equal(t, fixedNow, body.Timestamp)
			assert.Equal(t, map[string]int{"checked": 4, "alerts": 1, "errors": 0}, body.Stats)
			assert.Equal(t, 1, r.sweeps)
		})
	}
}

func TestSweep_Failure(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{err: context.DeadlineExceeded}
	api := newTriggerAPI(t, r)

	resp := api.Post("/api/v1/sweep")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decodeTrigger(t, resp.Body.Bytes())
	assert.False(t, body.Success)
	assert.Equal(t, "context deadline exceeded", body.Error)
	assert.Equal(t, fixedNow, body.Timestamp)
	assert.Nil(t, body.Stats)
}

func TestSweep_RunTimeout(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	api := newTriggerAPI(t, r, handlers.WithRunTimeout(time.Minute))

	resp := api.Get("/api/v1/sweep")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, r.hadDeadline)
}

func TestTrigger_Secret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		header     []any
		wantStatus int
	}{
		{name: "sweep without header", path: "/api/v1/sweep", wantStatus: http.StatusUnauthorized},
		{
			name:       "sweep with wrong secret",
			path:       "/api/v1/sweep",
			header:     []any{"Authorization: Bearer nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "sweep without bearer prefix",
			path:       "/api/v1/sweep",
			header:     []any{"Authorization: s3cret"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "sweep with secret",
			path:       "/api/v1/sweep",
			header:     []any{"Authorization: Bearer s3cret"},
			wantStatus: http.StatusOK,
		},
		{name: "feed scan without header", path: "/api/v1/feed-scan", wantStatus: http.StatusUnauthorized},
		{
			name:       "feed scan with secret",
			path:       "/api/v1/feed-scan",
			header:     []any{"Authorization: Bearer s3cret"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRunner{}
			api := newTriggerAPI(t, r, handlers.WithSecret("s3cret"))

			resp := api.Post(tt.path, tt.header...)
			require.Equal(t, tt.wantStatus, resp.Code)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Unauthorized", decodeTrigger(t, resp.Body.Bytes()).Error)
				assert.Zero(t, r.sweeps+r.scans, "unauthorized requests never run a pass")
			}
		})
	}
}

func TestFeedScan_Success(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{feedStats: domain.FeedScanStats{Pages: 2, Items: 40, Alerts: 3}}
	api := newTriggerAPI(t, r)

	resp := api.Get("/api/v1/feed-scan")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeTrigger(t, resp.Body.Bytes())
	assert.True(t, body.Success)
	assert.Equal(t, "BigBasket check completed", body.Message)
	assert.Equal(t, map[string]int{"pages": 2, "items": 40, "alerts": 3, "errors": 0}, body.Stats)
	assert.Equal(t, 1, r.scans)
}

func TestFeedScan_Failure(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{err: errors.New("scan failed")}
	api := newTriggerAPI(t, r)

	resp := api.Get("/api/v1/feed-scan")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decodeTrigger(t, resp.Body.Bytes())
	assert.False(t, body.Success)
	assert.Equal(t, "scan failed", body.Error)
}
