package openapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/restock-tracker/api/openapi"
)

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	openapi.RegisterRoutes(e)

	tests := []struct {
		path         string
		wantStatus   int
		wantLocation string
		wantBody     []string
	}{
		{
			path:       "/swagger/index.html",
			wantStatus: http.StatusOK,
			wantBody: []string{
				`<title>Restock Tracker API</title>`,
				`{url: "/openapi.json", name: "JSON"}`,
				`{url: "/openapi.yaml", name: "YAML"}`,
			},
		},
		{path: "/swagger", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
		{path: "/swagger/", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
		{path: "/swagger/swagger.json", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestRegisterRoutes_Title(t *testing.T) {
	t.Parallel()

	e := echo.New()
	openapi.RegisterRoutes(e, openapi.WithTitle("Staging Restock API"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", http.NoBody))
	assert.Contains(t, rec.Body.String(), "<title>Staging Restock API</title>")
}
