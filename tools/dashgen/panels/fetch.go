package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchOutcomes shows vendor requests per minute split by outcome.
func FetchOutcomes() *timeseries.PanelBuilder {
	return series("Vendor Requests / min", "Vendor API requests per minute by vendor and outcome").
		WithTarget(PromQuery(PerMinute("restock_fetch_requests_total", "vendor", "outcome"), "{{vendor}} {{outcome}}", "A")).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// Retries shows requests retried after a rate limit response.
func Retries() *timeseries.PanelBuilder {
	return series("Retries / min", "Requests retried after a vendor rate limit response").
		WithTarget(PromQuery(`restock:fetch_retries:rate5m * 60`, "{{vendor}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}

// DailyLimitHits counts requests refused in the last 24 hours because a
// vendor's daily budget ran out.
func DailyLimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Daily Limit Hits (24h)").
		Description("Requests refused because a vendor's daily budget was spent").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum(increase(restock_fetch_daily_limit_hits_total{`+Job+`}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
