package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// RunSweep checks every catalog entry of every vendor and alerts on the
// entries found in stock. Location-independent vendors are checked first,
// once per entry; the rest once per entry and location.
//
// A failed check is logged and counted and never stops the sweep. When ctx
// is done the sweep stops and returns the partial stats with ctx.Err().
func (eng *Engine) RunSweep(ctx context.Context) (stats domain.SweepStats, err error) {
	ctx, span := eng.tracer.Start(ctx, "sweep", trace.WithAttributes(attribute.Int("vendors", len(eng.vendors))))
	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
		endSpan(span, err,
			attribute.Int("checked", stats.Checked),
			attribute.Int("alerts", stats.Alerts),
			attribute.Int("errors", stats.Errors),
		)
	}()

	eng.log.Info("sweep starting", "vendors", len(eng.vendors))

	for i := range eng.vendors {
		v := &eng.vendors[i]
		if !v.RequiresLocation() {
			if err := eng.sweepProductOnly(ctx, v, &stats); err != nil {
				return stats, err
			}
		}
	}

	for i := range eng.vendors {
		v := &eng.vendors[i]
		if v.RequiresLocation() {
			if err := eng.sweepByLocation(ctx, v, &stats); err != nil {
				return stats, err
			}
		}
	}

	metrics.SweepLastSuccessTimestamp.SetToCurrentTime()
	eng.log.Info("sweep completed",
		"checked", stats.Checked,
		"alerts", stats.Alerts,
		"errors", stats.Errors,
		"duration", time.Since(start),
	)
	return stats, nil
}

func (eng *Engine) sweepProductOnly(ctx context.Context, v *retailer.Vendor, stats *domain.SweepStats) error {
	if len(v.Entries) == 0 {
		return nil
	}
	eng.log.Info("checking vendor", "vendor", v.Name, "entries", len(v.Entries))

	for _, entry := range v.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		eng.check(ctx, v, entry, "", stats)

		if err := sleep(ctx, eng.pacing.Entry); err != nil {
			return err
		}
	}
	return nil
}

func (eng *Engine) sweepByLocation(ctx context.Context, v *retailer.Vendor, stats *domain.SweepStats) error {
	if len(v.Entries) == 0 {
		return nil
	}

	locations := v.Locations
	if len(locations) == 0 {
		locations = eng.defaultLocations
	}
	if len(locations) == 0 {
		eng.log.Warn("skipping vendor, no locations configured", "vendor", v.Name)
		return nil
	}

	eng.log.Info("checking vendor",
		"vendor", v.Name,
		"entries", len(v.Entries),
		"locations", len(locations),
	)

	remaining := len(v.Entries) * len(locations)
	for _, entry := range v.Entries {
		for _, loc := range locations {
			if err := ctx.Err(); err != nil {
				return err
			}

			eng.check(ctx, v, entry, loc, stats)

			remaining--
			if remaining > 0 {
				if err := sleep(ctx, eng.pacing.Location); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// check runs one availability check and sends the alert when in stock.
func (eng *Engine) check(
	ctx context.Context,
	v *retailer.Vendor,
	entry domain.CatalogEntry,
	loc domain.Location,
	stats *domain.SweepStats,
) {
	stats.Checked++
	metrics.SweepChecksTotal.WithLabelValues(v.Name).Inc()

	ctx, span := eng.tracer.Start(ctx, "check", trace.WithAttributes(
		attribute.String("vendor", v.Name),
		attribute.String("entry", entry.ID),
		attribute.String("location", loc.String()),
	))

	log := eng.log.With("vendor", v.Name, "entry", entry.ID, "name", entry.Name)
	if loc != "" {
		log = log.With("location", loc)
	}

	payload, err := eng.transport.Fetch(ctx, v, retailer.Request{Location: loc, Code: entry.ID})
	if err != nil {
		stats.Errors++
		metrics.SweepErrorsTotal.WithLabelValues(v.Name).Inc()
		log.Warn("availability check failed", "error", err)
		endSpan(span, err)
		return
	}

	verdict := v.Evaluate(entry.ID, payload)
	endSpan(span, nil, attribute.Bool("available", verdict.Available))
	if !verdict.Available {
		log.Debug("out of stock")
		return
	}

	stats.Alerts++
	metrics.SweepAlertsTotal.WithLabelValues(v.Name).Inc()
	eng.alerts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", "sweep"),
		attribute.String("vendor", v.Name),
	))

	link := v.ProductLink(entry)
	log.Info("stock alert", "link", link)

	if err := eng.notifier.Send(ctx, StockMessage(v.Name, entry.Name, link, loc, verdict)); err != nil {
		log.Error("sending stock alert", "error", err)
	}

	// Pacing errors surface at the next context check.
	_ = sleep(ctx, eng.pacing.Notify)
}

// StockMessage renders a restock alert. The location line is omitted for
// product-only checks; vendor details follow, one per line.
func StockMessage(vendorName, entryName, link string, loc domain.Location, verdict retailer.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *Stock Alert*\nPlatform: %s\nProduct: [%s](%s)\n", vendorName, entryName, link)

	if loc == "" {
		return b.String()
	}

	fmt.Fprintf(&b, "📍 Pincode: %s", loc)
	for _, note := range verdict.Notes() {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return b.String()
}
