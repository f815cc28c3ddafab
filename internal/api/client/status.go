package client

import (
	"context"
	"time"
)

// Status is the service status report.
type Status struct {
	Status    string     `json:"status"`
	Service   string     `json:"service"`
	Timestamp time.Time  `json:"timestamp"`
	Message   string     `json:"message"`
	Vendors   int        `json:"vendors"`
	Trackers  int        `json:"trackers"`
	NextSweep *time.Time `json:"next_sweep,omitempty"`
}

// Vendor summarizes a configured vendor.
type Vendor struct {
	Name             string   `json:"name"`
	Kind             string   `json:"kind"`
	Entries          int      `json:"entries"`
	Locations        []string `json:"locations"`
	RequiresLocation bool     `json:"requires_location"`
	CustomTransport  bool     `json:"custom_transport"`
}

// Tracker summarizes a configured feed tracker.
type Tracker struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Pages    []int  `json:"pages"`
	Products int    `json:"products"`
}

// Catalog lists the configured vendors and trackers.
type Catalog struct {
	Vendors  []Vendor  `json:"vendors"`
	Trackers []Tracker `json:"trackers"`
}

// Status returns the service status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.get(ctx, "/api/v1/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Catalog returns the configured vendors and trackers.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog
	if err := c.get(ctx, "/api/v1/catalog", &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
