package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/restock-tracker/internal/feed"
	"github.com/donaldgifford/restock-tracker/internal/metrics"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// ScanConfiguredFeeds runs RunFeedScan over the configured trackers.
func (eng *Engine) ScanConfiguredFeeds(ctx context.Context) (domain.FeedScanStats, error) {
	return eng.RunFeedScan(ctx, eng.trackers)
}

// RunFeedScan scans the listing pages of each tracker and alerts on items
// passing the tracker filters. An item is alerted at most once per scan,
// even when it is listed on several pages or trackers.
//
// Without feed credentials the scan is skipped with a warning. A failed
// page is logged and counted; when ctx is done the scan stops and returns
// the partial stats with ctx.Err().
func (eng *Engine) RunFeedScan(ctx context.Context, trackers []domain.FeedTracker) (stats domain.FeedScanStats, err error) {
	if len(trackers) == 0 {
		return stats, nil
	}
	if eng.feed == nil || !eng.feed.Configured() {
		eng.log.Warn("feed credentials missing, skipping feed scan")
		return stats, nil
	}

	ctx, span := eng.tracer.Start(ctx, "feed_scan", trace.WithAttributes(attribute.Int("trackers", len(trackers))))
	start := time.Now()
	defer func() {
		metrics.FeedScanDuration.Observe(time.Since(start).Seconds())
		endSpan(span, err,
			attribute.Int("pages", stats.Pages),
			attribute.Int("items", stats.Items),
			attribute.Int("alerts", stats.Alerts),
			attribute.Int("errors", stats.Errors),
		)
	}()

	notified := make(map[string]struct{})

	for _, t := range trackers {
		if t.Slug == "" {
			continue
		}
		matcher := feed.NewMatcher(t.Products)

		for _, page := range t.PageList() {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			if err := eng.scanPage(ctx, t, page, matcher, notified, &stats); err != nil {
				return stats, err
			}

			if err := sleep(ctx, eng.pacing.Page); err != nil {
				return stats, err
			}
		}
	}

	metrics.FeedScanLastSuccessTimestamp.SetToCurrentTime()
	eng.log.Info("feed scan completed",
		"pages", stats.Pages,
		"items", stats.Items,
		"alerts", stats.Alerts,
		"errors", stats.Errors,
		"duration", time.Since(start),
	)
	return stats, nil
}

// scanPage returns an error only when ctx is done.
func (eng *Engine) scanPage(
	ctx context.Context,
	t domain.FeedTracker,
	page int,
	matcher *feed.Matcher,
	notified map[string]struct{},
	stats *domain.FeedScanStats,
) error {
	log := eng.log.With("slug", t.Slug, "page", page)

	stats.Pages++
	metrics.FeedPagesTotal.Inc()

	ctx, span := eng.tracer.Start(ctx, "feed_page", trace.WithAttributes(
		attribute.String("slug", t.Slug),
		attribute.Int("page", page),
	))
	items, err := eng.feed.FetchPage(ctx, t, page)
	endSpan(span, err, attribute.Int("items", len(items)))
	if err != nil {
		stats.Errors++
		metrics.FeedErrorsTotal.Inc()
		log.Warn("feed page fetch failed", "tracker", t.DisplayName(), "error", err)
		return nil
	}
	if len(items) == 0 {
		log.Info("no products found")
		return nil
	}
	stats.Items += len(items)

	for _, it := range items {
		product, ok := feed.Filter(it, t, matcher)
		if !ok {
			continue
		}
		if _, seen := notified[it.ID]; seen {
			continue
		}
		notified[it.ID] = struct{}{}

		stats.Alerts++
		metrics.FeedAlertsTotal.Inc()
		eng.alerts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", "feed"),
			attribute.String("tracker", t.Slug),
		))
		log.Info("feed offer alert", "item", it.ID, "desc", it.Desc)

		if err := eng.feedNotifier.Send(ctx, feed.BuildMessage(it, t, page, product)); err != nil {
			log.Error("sending feed alert", "item", it.ID, "error", err)
		}

		if err := sleep(ctx, eng.pacing.Item); err != nil {
			return err
		}
	}
	return nil
}
