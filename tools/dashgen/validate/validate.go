// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to unknown metrics.
package validate

import (
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
	"github.com/tidwall/gjson"

	"github.com/donaldgifford/restock-tracker/tools/dashgen/rules"
)

// Result collects the problems found in one artifact.
type Result struct {
	Errors   []error
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every panel target expression of an encoded
// dashboard. Panels may sit at the top level or inside rows.
func Dashboard(data []byte, known map[string]bool) Result {
	var res Result
	if !gjson.ValidBytes(data) {
		res.Errors = append(res.Errors, fmt.Errorf("dashboard is not valid JSON"))
		return res
	}

	var panels []gjson.Result
	for _, p := range gjson.GetBytes(data, "panels").Array() {
		panels = append(panels, p)
		panels = append(panels, p.Get("panels").Array()...)
	}

	exprs := 0
	for _, p := range panels {
		title := p.Get("title").String()
		for _, t := range p.Get("targets").Array() {
			exprs++
			res.check(title, t.Get("expr").String(), known)
		}
	}
	if exprs == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no query targets")
	}
	return res
}

// Rules validates every rule expression of a PrometheusRule.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			switch {
			case name != "" && r.IsAlert():
				res.Errors = append(res.Errors, fmt.Errorf("group %s: rule %s sets both record and alert", g.Name, name))
				continue
			case r.IsAlert():
				name = r.Alert
			case name == "":
				res.Errors = append(res.Errors, fmt.Errorf("group %s: rule without record or alert name", g.Name))
				continue
			}
			res.check(name, r.Expr, known)
		}
	}
	return res
}

func (r *Result) check(where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		r.Errors = append(r.Errors, fmt.Errorf("%s: empty expression", where))
		return
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Errorf("%s: %w", where, err))
		return
	}

	for _, name := range MetricNames(node) {
		if !known[name] {
			r.Errors = append(r.Errors, fmt.Errorf("%s: unknown metric %q", where, name))
		}
	}
}

// MetricNames returns the metric names selected by an expression, with
// histogram suffixes stripped.
func MetricNames(node parser.Node) []string {
	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, baseName(vs.Name))
		}
		return nil
	})
	return names
}

func baseName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok {
			return base
		}
	}
	return name
}
