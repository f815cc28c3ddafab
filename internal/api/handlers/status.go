package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/restock-tracker/internal/retailer"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// ServiceName is reported by the status endpoint.
const ServiceName = "restock-tracker"

// CatalogProvider exposes the configured vendors and feed trackers.
type CatalogProvider interface {
	Vendors() []retailer.Vendor
	Trackers() []domain.FeedTracker
}

// NextRunner reports the next scheduled sweep.
type NextRunner interface {
	NextSweep() time.Time
}

// StatusHandler reports service status and the configured catalog.
type StatusHandler struct {
	catalog CatalogProvider
	sched   NextRunner
	nowFunc func() time.Time
}

// NewStatusHandler creates a StatusHandler. sched may be nil when the
// schedule is disabled.
func NewStatusHandler(c CatalogProvider, sched NextRunner) *StatusHandler {
	return &StatusHandler{catalog: c, sched: sched, nowFunc: time.Now}
}

// StatusOutput is the response for GET /api/v1/status.
type StatusOutput struct {
	Body struct {
		Status    string     `json:"status"               example:"ok"`
		Service   string     `json:"service"              example:"restock-tracker"`
		Timestamp time.Time  `json:"timestamp"`
		Message   string     `json:"message"              example:"Tracking bot is active and ready!"`
		Vendors   int        `json:"vendors"              doc:"Number of configured vendors"`
		Trackers  int        `json:"trackers"             doc:"Number of configured feed trackers"`
		NextSweep *time.Time `json:"next_sweep,omitempty" doc:"Next scheduled sweep"`
	}
}

// Status reports that the service is up.
func (h *StatusHandler) Status(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	out := &StatusOutput{}
	out.Body.Status = "ok"
	out.Body.Service = ServiceName
	out.Body.Timestamp = h.nowFunc().UTC()
	out.Body.Message = "Tracking bot is active and ready!"
	out.Body.Vendors = len(h.catalog.Vendors())
	out.Body.Trackers = len(h.catalog.Trackers())

	if h.sched != nil {
		if next := h.sched.NextSweep(); !next.IsZero() {
			next = next.UTC()
			out.Body.NextSweep = &next
		}
	}
	return out, nil
}

// VendorSummary describes one configured vendor.
type VendorSummary struct {
	Name             string   `json:"name"              example:"Croma"`
	Kind             string   `json:"kind"              example:"croma"`
	Entries          int      `json:"entries"`
	Locations        []string `json:"locations"`
	RequiresLocation bool     `json:"requires_location"`
	CustomTransport  bool     `json:"custom_transport"  doc:"Whether a vendor-specific request strategy is used"`
}

// TrackerSummary describes one configured feed tracker.
type TrackerSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Pages    []int  `json:"pages"`
	Products int    `json:"products"`
}

// CatalogOutput is the response for GET /api/v1/catalog.
type CatalogOutput struct {
	Body struct {
		Vendors  []VendorSummary  `json:"vendors"`
		Trackers []TrackerSummary `json:"trackers"`
	}
}

// Catalog lists the configured vendors and feed trackers.
func (h *StatusHandler) Catalog(_ context.Context, _ *struct{}) (*CatalogOutput, error) {
	out := &CatalogOutput{}
	out.Body.Vendors = make([]VendorSummary, 0, len(h.catalog.Vendors()))
	out.Body.Trackers = make([]TrackerSummary, 0, len(h.catalog.Trackers()))

	for _, v := range h.catalog.Vendors() {
		s := VendorSummary{
			Name:             v.Name,
			Kind:             string(retailer.KindGeneric),
			Entries:          len(v.Entries),
			Locations:        make([]string, 0, len(v.Locations)),
			RequiresLocation: v.RequiresLocation(),
			CustomTransport:  v.Strategy != nil,
		}
		if v.Kind != nil {
			s.Kind = string(v.Kind.ID())
		}
		for _, loc := range v.Locations {
			s.Locations = append(s.Locations, loc.String())
		}
		out.Body.Vendors = append(out.Body.Vendors, s)
	}

	for _, t := range h.catalog.Trackers() {
		out.Body.Trackers = append(out.Body.Trackers, TrackerSummary{
			Slug:     t.Slug,
			Name:     t.DisplayName(),
			Pages:    t.PageList(),
			Products: len(t.Products),
		})
	}
	return out, nil
}

// RegisterStatusRoutes registers the status and catalog routes.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get service status",
		Tags:        []string{"system"},
	}, h.Status)

	huma.Register(api, huma.Operation{
		OperationID: "get-catalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "List configured vendors and trackers",
		Tags:        []string{"system"},
	}, h.Catalog)
}
