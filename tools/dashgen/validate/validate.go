// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and may only reference known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/partsearch/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings do
// not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there were no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Expr parses expr and returns the metric names it selects.
func Expr(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})
	return slices.Sorted(maps.Keys(seen)), nil
}

func (r *Result) checkExpr(where, expr string, known map[string]bool) {
	names, err := Expr(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	for _, name := range names {
		if !known[name] {
			r.errorf("%s: unknown metric %q", where, name)
		}
	}
}

type panelJSON struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Panels  []panelJSON `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

// Dashboard validates every panel query of dash.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("marshaling dashboard: %v", err)
		return r
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("reading dashboard JSON: %v", err)
		return r
	}

	var walk func(panels []panelJSON)
	walk = func(panels []panelJSON) {
		for _, p := range panels {
			if p.Type == "row" {
				if len(p.Panels) == 0 {
					r.warnf("row %q has no panels", p.Title)
				}
				walk(p.Panels)
				continue
			}
			if len(p.Targets) == 0 {
				r.warnf("panel %q has no queries", p.Title)
			}
			for i, t := range p.Targets {
				r.checkExpr(fmt.Sprintf("panel %q target %d", p.Title, i), t.Expr, known)
			}
		}
	}
	walk(doc.Panels)
	return r
}

// Rules validates rule expressions. Names recorded by earlier groups or
// rules become known to later ones.
func Rules(groups []rules.RuleGroup, known map[string]bool) Result {
	var r Result
	known = maps.Clone(known)
	for _, g := range groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if name == "" {
				r.errorf("group %q: rule with neither record nor alert", g.Name)
				continue
			}
			r.checkExpr(fmt.Sprintf("group %q rule %q", g.Name, name), rule.Expr, known)
			if rule.Record != "" {
				known[rule.Record] = true
			}
		}
	}
	return r
}
