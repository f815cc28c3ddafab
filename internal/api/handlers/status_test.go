package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/internal/api/handlers"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

type fakeCatalog struct {
	vendors  []retailer.Vendor
	trackers []domain.FeedTracker
}

func (f fakeCatalog) Vendors() []retailer.Vendor      { return f.vendors }
func (f fakeCatalog) Trackers() []domain.FeedTracker { return f.trackers }

type fixedNext time.Time

func (n fixedNext) NextSweep() time.Time { return time.Time(n) }

func testCatalog() fakeCatalog {
	return fakeCatalog{
		vendors: []retailer.Vendor{
			{
				Name:      "Croma",
				Kind:      retailer.Croma{},
				Entries:   []domain.CatalogEntry{{ID: "1"}, {ID: "2"}},
				Locations: []domain.Location{"122001"},
				Strategy:  retailer.StrategyFunc(nil),
			},
			{Name: "Local Shop"},
			{Name: "iQOO", Kind: retailer.KindFor("iQOO", "")},
		},
		trackers: []domain.FeedTracker{{Slug: "amul", Label: "Amul offers"}},
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	next := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(testCatalog(), fixedNext(next)))

	resp := api.Get("/api/v1/status")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status    string     `json:"status"`
		Service   string     `json:"service"`
		Message   string     `json:"message"`
		Vendors   int        `json:"vendors"`
		Trackers  int        `json:"trackers"`
		NextSweep *time.Time `json:"next_sweep"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "restock-tracker", body.Service)
	assert.Equal(t, "Tracking bot is active and ready!", body.Message)
	assert.Equal(t, 3, body.Vendors)
	assert.Equal(t, 1, body.Trackers)
	require.NotNil(t, body.NextSweep)
	assert.True(t, next.Equal(*body.NextSweep))
}

func TestStatus_NoSchedule(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(fakeCatalog{}, nil))

	resp := api.Get("/api/v1/status")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "next_sweep")
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(testCatalog(), nil))

	resp := api.Get("/api/v1/catalog")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Vendors  []handlers.VendorSummary  `json:"vendors"`
		Trackers []handlers.TrackerSummary `json:"trackers"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	require.Len(t, body.Vendors, 3)
	assert.Equal(t, handlers.VendorSummary{
		Name:             "Croma",
		Kind:             "croma",
		Entries:          2,
		Locations:        []string{"122001"},
		RequiresLocation: true,
		CustomTransport:  true,
	}, body.Vendors[0])
	assert.Equal(t, "generic", body.Vendors[1].Kind)
	assert.False(t, body.Vendors[1].CustomTransport)
	assert.Equal(t, "iqoo", body.Vendors[2].Kind)
	assert.False(t, body.Vendors[2].RequiresLocation)

	assert.Equal(t, []handlers.TrackerSummary{
		{Slug: "amul", Name: "Amul offers", Pages: []int{1}, Products: 0},
	}, body.Trackers)
}
