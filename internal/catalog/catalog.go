// Package catalog turns the loaded configuration into the immutable vendor
// set, feed trackers and notification channels used by the engine.
package catalog

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/donaldgifford/restock-tracker/internal/config"
	"github.com/donaldgifford/restock-tracker/internal/feed"
	"github.com/donaldgifford/restock-tracker/internal/fetch"
	"github.com/donaldgifford/restock-tracker/internal/notify"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// Catalog holds everything a sweep or feed scan needs.
type Catalog struct {
	Vendors   []retailer.Vendor
	Locations []domain.Location
	Trackers  []domain.FeedTracker

	Transport *fetch.Client
	Feed      *feed.Client

	// Notifier receives restock alerts.
	Notifier notify.Notifier
	// FeedNotifier receives feed offer alerts. It prefers the quick
	// commerce bot and falls back to Notifier.
	FeedNotifier notify.Notifier
}

// Option configures Build.
type Option func(*options)

type options struct {
	logger *slog.Logger
	http   *http.Client
}

// WithLogger sets the logger passed to every built component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient sets the HTTP client used for vendor, feed and chat
// requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.http = hc
	}
}

// Build assembles a Catalog from a validated configuration. Each vendor's
// kind and request strategy are selected here, once.
func Build(cfg *config.Config, opts ...Option) *Catalog {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(o.logger)}
	if o.http != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(o.http))
	}
	for _, vc := range cfg.Vendors {
		if rl := vc.RateLimit; rl != nil {
			fetchOpts = append(fetchOpts, fetch.WithRateLimiter(vc.Name, fetch.NewRateLimiter(fetch.Limits{
				PerSecond: rl.PerSecond,
				Burst:     rl.Burst,
				Daily:     rl.DailyLimit,
			})))
		}
	}
	transport := fetch.NewClient(fetchOpts...)

	c := &Catalog{
		Locations: locations(cfg.Locations),
		Trackers:  Trackers(cfg.Feed.Trackers),
		Transport: transport,
	}

	for _, vc := range cfg.Vendors {
		c.Vendors = append(c.Vendors, buildVendor(vc, transport, o.logger))
	}

	c.Feed = buildFeed(cfg.Feed, transport, o.logger)
	c.Notifier, c.FeedNotifier = buildNotifiers(cfg.Notifications, o)

	o.logger.Info("catalog built",
		"vendors", len(c.Vendors),
		"locations", len(c.Locations),
		"trackers", len(c.Trackers),
		"feed_configured", c.Feed.Configured(),
	)
	return c
}

func buildVendor(vc config.VendorConfig, d fetch.Doer, log *slog.Logger) retailer.Vendor {
	kind := retailer.KindFor(vc.Name, vc.Kind)

	v := retailer.Vendor{
		Name: vc.Name,
		Kind: kind,
		Request: retailer.RequestSpec{
			Method:  vc.Method,
			URL:     vc.URL,
			Headers: vc.Headers,
			APIKey:  vc.APIKey,
			Timeout: vc.Timeout,
		},
		Locations:           locations(vc.Locations),
		LocationIndependent: vc.LocationIndependent,
	}

	for _, e := range vc.Entries {
		v.Entries = append(v.Entries, domain.CatalogEntry{ID: e.ID, Name: e.Name, URL: e.URL})
	}

	v.Strategy = fetch.StrategyFor(vc.Name, kind, d, fetch.Endpoint{
		URL:     vc.URL,
		Headers: vc.Headers,
		Timeout: vc.Timeout,
	}, log.With("vendor", vc.Name))

	return v
}

func buildFeed(fc config.FeedConfig, d fetch.Doer, log *slog.Logger) *feed.Client {
	opts := []feed.Option{feed.WithLogger(log)}
	if fc.ListingURL != "" {
		opts = append(opts, feed.WithListingURL(fc.ListingURL))
	}
	if fc.Timeout > 0 {
		opts = append(opts, feed.WithTimeout(fc.Timeout))
	}

	return feed.NewClient(d, feed.Credentials{
		Cookie:         fc.Cookie,
		AcceptLanguage: fc.AcceptLanguage,
		UserAgent:      fc.UserAgent,
		TrackerID:      fc.TrackerID,
	}, opts...)
}

// buildNotifiers returns the restock notifier and the feed notifier.
func buildNotifiers(nc config.NotificationsConfig, o options) (notify.Notifier, notify.Notifier) {
	var primary, secondary notify.Notifier

	if nc.Telegram.Configured() {
		primary = telegram(nc.Telegram, "telegram", o.http)
	}
	if nc.Discord.Configured() {
		dopts := []notify.DiscordOption{notify.WithUsername(nc.Discord.Username)}
		if o.http != nil {
			dopts = append(dopts, notify.WithHTTPClient(o.http))
		}
		secondary = notify.NewDiscordNotifier(nc.Discord.WebhookURL, dopts...)
	}

	var stock notify.Notifier
	switch {
	case primary == nil && secondary == nil:
		o.logger.Warn("no notification channel configured, alerts will only be logged")
		stock = notify.NewNoOpNotifier(o.logger)
	case secondary == nil:
		stock = primary
	default:
		stock = notify.NewFallback(primary, secondary, o.logger)
	}

	if !nc.QuickCommerce.Configured() {
		return stock, stock
	}
	quick := telegram(nc.QuickCommerce, "quick_commerce", o.http)
	return stock, notify.NewFallback(quick, stock, o.logger)
}

func telegram(tc config.TelegramConfig, channel string, hc *http.Client) *notify.TelegramNotifier {
	opts := []notify.TelegramOption{notify.WithTelegramChannel(channel)}
	if tc.Endpoint != "" {
		opts = append(opts, notify.WithTelegramEndpoint(tc.Endpoint))
	}
	if hc != nil {
		opts = append(opts, notify.WithTelegramHTTPClient(hc))
	}
	return notify.NewTelegramNotifier(tc.BotToken, tc.ChatID, opts...)
}

// Trackers converts tracker configuration into domain trackers.
func Trackers(tcs []config.TrackerConfig) []domain.FeedTracker {
	trackers := make([]domain.FeedTracker, 0, len(tcs))
	for _, tc := range tcs {
		t := domain.FeedTracker{
			Slug:              strings.TrimSpace(tc.Slug),
			Label:             tc.Label,
			BucketID:          tc.BucketID,
			Type:              tc.Type,
			Pages:             tc.Pages,
			BrandWhitelist:    tc.BrandWhitelist,
			CategoryWhitelist: tc.CategoryWhitelist,
		}
		for _, p := range tc.Products {
			t.Products = append(t.Products, domain.FeedProduct{Name: p.Name, Matchers: p.Matchers})
		}
		trackers = append(trackers, t)
	}
	return trackers
}

func locations(codes []string) []domain.Location {
	out := make([]domain.Location, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, domain.Location(c))
		}
	}
	return out
}
