// Package domain defines the core business types for the restock tracker.
package domain

import "strings"

// Location is a postal code scoping availability queries for
// location-dependent vendors.
type Location string

// String returns the postal code.
func (l Location) String() string {
	return string(l)
}

// CatalogEntry is a specific product tracked for restock on one vendor.
type CatalogEntry struct {
	ID   string `json:"id"            yaml:"id"`
	Name string `json:"name"          yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url"`
}

// FeedProduct is a configured product matched against feed listings.
// When Matchers is empty the Name is used as the only matcher phrase.
type FeedProduct struct {
	Name     string   `json:"name"               yaml:"name"`
	Matchers []string `json:"matchers,omitempty" yaml:"matchers"`
}

// Phrases returns the matcher phrases for the product.
func (p FeedProduct) Phrases() []string {
	if len(p.Matchers) > 0 {
		return p.Matchers
	}
	return []string{p.Name}
}

// FeedTracker is a bulk listing source scanned for in-stock offers.
type FeedTracker struct {
	Slug              string        `json:"slug"                         yaml:"slug"`
	Label             string        `json:"label,omitempty"              yaml:"label"`
	BucketID          string        `json:"bucket_id,omitempty"          yaml:"bucket_id"`
	Type              string        `json:"type,omitempty"               yaml:"type"`
	Pages             []int         `json:"pages,omitempty"              yaml:"pages"`
	BrandWhitelist    []string      `json:"brand_whitelist,omitempty"    yaml:"brand_whitelist"`
	CategoryWhitelist []string      `json:"category_whitelist,omitempty" yaml:"category_whitelist"`
	Products          []FeedProduct `json:"products,omitempty"           yaml:"products"`
}

// PageList returns the configured pages, defaulting to the first page.
func (t FeedTracker) PageList() []int {
	if len(t.Pages) > 0 {
		return t.Pages
	}
	return []int{1}
}

// DisplayName returns the label if set, otherwise the slug.
func (t FeedTracker) DisplayName() string {
	if strings.TrimSpace(t.Label) != "" {
		return t.Label
	}
	return t.Slug
}

// SweepStats aggregates the counters of one sweep invocation.
type SweepStats struct {
	Checked int `json:"checked"`
	Alerts  int `json:"alerts"`
	Errors  int `json:"errors"`
}

// FeedScanStats aggregates the counters of one feed-scan invocation.
type FeedScanStats struct {
	Pages  int `json:"pages"`
	Items  int `json:"items"`
	Alerts int `json:"alerts"`
	Errors int `json:"errors"`
}
