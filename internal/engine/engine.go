// Package engine runs restock sweeps and feed scans.
package engine

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/restock-tracker/internal/feed"
	"github.com/donaldgifford/restock-tracker/internal/notify"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
	"github.com/donaldgifford/restock-tracker/internal/telemetry"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// Transport performs one availability check for a vendor.
type Transport interface {
	Fetch(ctx context.Context, v *retailer.Vendor, req retailer.Request) ([]byte, error)
}

// FeedSource fetches listing pages for feed trackers.
type FeedSource interface {
	Configured() bool
	FetchPage(ctx context.Context, t domain.FeedTracker, page int) ([]feed.Item, error)
}

// Pacing holds the delays inserted between steps of a pass.
type Pacing struct {
	// Notify follows every sent alert.
	Notify time.Duration
	// Location separates consecutive checks of a location-dependent vendor.
	Location time.Duration
	// Entry follows every check of a location-independent vendor.
	Entry time.Duration
	// Item follows every feed alert.
	Item time.Duration
	// Page follows every feed page.
	Page time.Duration
}

// DefaultPacing returns the default delays.
func DefaultPacing() Pacing {
	return Pacing{
		Notify:   500 * time.Millisecond,
		Location: 500 * time.Millisecond,
		Entry:    time.Second,
		Item:     500 * time.Millisecond,
		Page:     500 * time.Millisecond,
	}
}

// Engine orchestrates sweeps over vendors and scans over feeds. Vendors
// are fixed at construction and never modified.
type Engine struct {
	vendors          []retailer.Vendor
	transport        Transport
	notifier         notify.Notifier
	defaultLocations []domain.Location

	feed         FeedSource
	feedNotifier notify.Notifier
	trackers     []domain.FeedTracker

	pacing Pacing
	log    *slog.Logger

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	alerts         metric.Int64Counter
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	vendors []retailer.Vendor,
	t Transport,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		vendors:   vendors,
		transport: t,
		notifier:  n,
		pacing:    DefaultPacing(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.feedNotifier == nil {
		eng.feedNotifier = eng.notifier
	}
	eng.initTelemetry()
	return eng
}

func (eng *Engine) initTelemetry() {
	if eng.tracerProvider == nil {
		eng.tracerProvider = otel.GetTracerProvider()
	}
	if eng.meterProvider == nil {
		eng.meterProvider = otel.GetMeterProvider()
	}
	eng.tracer = eng.tracerProvider.Tracer(telemetry.Scope)

	alerts, err := eng.meterProvider.Meter(telemetry.Scope).Int64Counter("restock.alerts",
		metric.WithDescription("Alerts raised by sweeps and feed scans"),
	)
	if err != nil {
		eng.log.Warn("creating alert counter", "error", err)
		alerts = noop.Int64Counter{}
	}
	eng.alerts = alerts
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithPacing sets the delays between steps.
func WithPacing(p Pacing) EngineOption {
	return func(e *Engine) {
		e.pacing = p
	}
}

// WithDefaultLocations sets the locations used by location-dependent
// vendors that have none of their own.
func WithDefaultLocations(locs []domain.Location) EngineOption {
	return func(e *Engine) {
		e.defaultLocations = locs
	}
}

// WithFeed enables feed scans over the given trackers.
func WithFeed(src FeedSource, trackers []domain.FeedTracker) EngineOption {
	return func(e *Engine) {
		e.feed = src
		e.trackers = trackers
	}
}

// WithFeedNotifier sets the notifier for feed alerts. It defaults to the
// sweep notifier.
func WithFeedNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.feedNotifier = n
	}
}

// WithTracerProvider sets the provider for sweep and feed scan spans. It
// defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(e *Engine) {
		e.tracerProvider = tp
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider. It defaults to
// the global provider.
func WithMeterProvider(mp metric.MeterProvider) EngineOption {
	return func(e *Engine) {
		e.meterProvider = mp
	}
}

// Vendors returns the configured vendors.
func (eng *Engine) Vendors() []retailer.Vendor {
	return eng.vendors
}

// Trackers returns the configured feed trackers.
func (eng *Engine) Trackers() []domain.FeedTracker {
	return eng.trackers
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// endSpan records err on span, when set, and ends it.
func endSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
