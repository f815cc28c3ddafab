// Package panels provides Grafana dashboard panel builders for
// restock-tracker metrics.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Job is the scrape job label of the service.
const Job = `job="restock-tracker"`

// Panel sizes on the 24-column grid.
const (
	StatWidth  = 6
	StatHeight = 4

	TSHeight   = 8
	ThirdWidth = 8
)

// DSRef returns a datasource reference pointing at the ${datasource}
// template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// PerMinute returns the per-minute rate of a counter scoped to Job, summed
// by the given labels.
func PerMinute(counter string, by ...string) string {
	expr := fmt.Sprintf(`sum(rate(%s{%s}[5m]))`, counter, Job)
	if len(by) > 0 {
		expr += " by (" + strings.Join(by, ", ") + ")"
	}
	return expr + " * 60"
}

// Quantile returns a histogram_quantile expression over the named histogram.
func Quantile(q, histogram, window string) string {
	return fmt.Sprintf(`histogram_quantile(%s, sum(rate(%s_bucket{%s}[%s])) by (le))`, q, histogram, Job, window)
}

// series is the common line timeseries panel. Callers override size and
// colors where needed.
func series(title, desc string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(desc).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

func thresholds(steps ...dashboard.Threshold) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(steps)
}

// ThresholdsRedGreen is red below greenAbove and green from it.
func ThresholdsRedGreen(greenAbove float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds(
		dashboard.Threshold{Color: "red"},
		dashboard.Threshold{Value: cog.ToPtr(greenAbove), Color: "green"},
	)
}

// ThresholdsGreenYellowRed returns three-tier thresholds.
func ThresholdsGreenYellowRed(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds(
		dashboard.Threshold{Color: "green"},
		dashboard.Threshold{Value: cog.ToPtr(yellow), Color: "yellow"},
		dashboard.Threshold{Value: cog.ToPtr(red), Color: "red"},
	)
}

func ThresholdsGreenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return thresholds(dashboard.Threshold{Color: "green"})
}

func ColorSchemeThresholds() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

func ColorSchemePaletteClassic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend renders the legend as a bottom table with the given calcs.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip shows all series, sorted descending.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
