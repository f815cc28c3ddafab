package validate_test

import (
	"testing"

	"github.com/prometheus/prometheus/promql/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/restock-tracker/tools/dashgen/rules"
	"github.com/donaldgifford/restock-tracker/tools/dashgen/validate"
)

var known = map[string]bool{
	"restock_sweep_checks_total":     true,
	"restock_sweep_duration_seconds": true,
	"up":                             true,
}

func TestMetricNames(t *testing.T) {
	t.Parallel()

	node, err := parser.ParseExpr(
		`histogram_quantile(0.95, sum(rate(restock_sweep_duration_seconds_bucket[5m])) by (le)) + on() up`,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"restock_sweep_duration_seconds", "up"}, validate.MetricNames(node))
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantOk     bool
		wantWarned bool
	}{
		{
			name:   "nested row panels",
			data:   `{"panels":[{"title":"Row","panels":[{"title":"Checks","targets":[{"expr":"sum(rate(restock_sweep_checks_total[5m]))"}]}]}]}`,
			wantOk: true,
		},
		{
			name: "unknown metric",
			data: `{"panels":[{"title":"Bad","targets":[{"expr":"legacy_listings_total"}]}]}`,
		},
		{
			name: "syntax error",
			data: `{"panels":[{"title":"Bad","targets":[{"expr":"sum(rate(up[5m]"}]}]}`,
		},
		{
			name:       "no targets",
			data:       `{"panels":[]}`,
			wantOk:     true,
			wantWarned: true,
		},
		{
			name: "invalid json",
			data: `{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := validate.Dashboard([]byte(tt.data), known)
			assert.Equal(t, tt.wantOk, res.Ok(), "errors: %v", res.Errors)
			assert.Equal(t, tt.wantWarned, len(res.Warnings) > 0)
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.Spec{Groups: []rules.Group{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "ok", Expr: `sum(rate(restock_sweep_checks_total[5m]))`},
			{Alert: "Unknown", Expr: `restock_missing > 0`},
			{Expr: `up`},
			{Alert: "Empty", Expr: " "},
			{Record: "both", Alert: "Both", Expr: `up`},
		},
	}}}}

	res := validate.Rules(cr, known)
	assert.False(t, res.Ok())
	assert.Len(t, res.Errors, 4)
}
