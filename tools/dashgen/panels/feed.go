package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// LastFeedScan returns a stat panel showing time since the last completed
// feed scan.
func LastFeedScan() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Last Feed Scan").
		Description("Time since the last BigBasket scan ran to completion").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - restock_feed_scan_last_success_timestamp{`+Job+`}`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(1800, 5400)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// FeedAlerts24h returns a stat panel showing feed offer alerts in the last
// 24 hours.
func FeedAlerts24h() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Offer Alerts (24h)").
		Description("Feed offer alerts sent in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(restock_feed_alerts_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// FeedPages shows listing pages fetched and failed per minute.
func FeedPages() *timeseries.PanelBuilder {
	return series("Feed Pages / min", "Listing pages fetched and failed per minute").
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(PerMinute("restock_feed_pages_total"), "fetched", "A")).
		WithTarget(PromQuery(`restock:feed_errors:rate5m * 60`, "failed", "B")).
		Tooltip(MultiTooltip())
}

// FeedScanDuration shows the p95 feed scan duration.
func FeedScanDuration() *timeseries.PanelBuilder {
	return series("Feed Scan Duration (p95)", "95th percentile duration of a feed scan").
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(Quantile("0.95", "restock_feed_scan_duration_seconds", "15m"), "p95", "A")).
		Unit("s")
}
