package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		handler    echo.HandlerFunc
		wantStatus int
		wantBody   string
		wantLog    []string
	}{
		{
			name:       "no panic passes through",
			method:     http.MethodGet,
			path:       "/api/v1/status",
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "string panic",
			method:     http.MethodPost,
			path:       "/api/v1/sweep",
			handler:    func(echo.Context) error { panic("vendor table corrupted") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"internal server error"}`,
			wantLog:    []string{"panic recovered", "vendor table corrupted", "path=/api/v1/sweep", "method=POST", "stack="},
		},
		{
			name:       "non-string panic",
			method:     http.MethodGet,
			path:       "/api/v1/feed-scan",
			handler:    func(echo.Context) error { panic(42) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"internal server error"}`,
			wantLog:    []string{"error=42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := captureLogger()

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, tt.path, http.NoBody), rec)

			require.NoError(t, Recovery(logger)(tt.handler)(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				assert.Empty(t, buf.String(), "no panic should produce no log output")
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRecovery_CommittedResponseUntouched(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), rec)

	handler := Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(func(c echo.Context) error {
		if err := c.String(http.StatusAccepted, "partial"); err != nil {
			return err
		}
		panic("after write")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestRecovery_LogsRequestID(t *testing.T) {
	t.Parallel()

	logger, buf := captureLogger()

	e := echo.New()
	e.Use(Recovery(logger), RequestLog(logger))
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", http.NoBody)
	req.Header.Set(requestIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "request_id=trace-1")
}
