package octopart

import (
	"maps"
	"slices"
)

// Args holds named call arguments keyed by API argument name. Dotted API
// names such as "drilldown.include" may also be spelled with underscores
// ("drilldown_include").
type Args map[string]any

// Arg is a single named argument in the order it was supplied.
type Arg struct {
	Key   string
	Value any
}

var dottedNames = map[string]string{
	"drilldown_include":                 "drilldown.include",
	"drilldown_fieldname":               "drilldown.fieldname",
	"drilldown_facets_prefix":           "drilldown.facets.prefix",
	"drilldown_facets_start":            "drilldown.facets.start",
	"drilldown_facets_limit":            "drilldown.facets.limit",
	"drilldown_facets_sortby":           "drilldown.facets.sortby",
	"drilldown_facets_include_hits":     "drilldown.facets.include_hits",
	"optimize_return_stubs":             "optimize.return_stubs",
	"optimize_hide_datasheets":          "optimize.hide_datasheets",
	"optimize_hide_descriptions":        "optimize.hide_descriptions",
	"optimize_hide_images":              "optimize.hide_images",
	"optimize_hide_offers":              "optimize.hide_offers",
	"optimize_hide_unauthorized_offers": "optimize.hide_unauthorized_offers",
	"optimize_hide_specs":               "optimize.hide_specs",
}

// DottedName returns the API spelling of an argument name.
func DottedName(key string) string {
	if dotted, ok := dottedNames[key]; ok {
		return dotted
	}
	return key
}

// collect merges positional arguments with translated options into the
// argument list seen by validation. Keys that collide after translation stay
// as separate entries so the collision is reported as a duplicate.
func collect(positional []Arg, opts Args) []Arg {
	out := make([]Arg, 0, len(positional)+len(opts))
	out = append(out, positional...)
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		out = append(out, Arg{Key: DottedName(k), Value: translateValue(opts[k])})
	}
	return out
}

// translateValue rewrites nested mapping keys into their dotted spelling
// without touching the caller's values.
func translateValue(v any) any {
	switch t := v.(type) {
	case Args:
		return Args(translateMap(t))
	case map[string]any:
		return translateMap(t)
	case []Args:
		out := make([]Args, len(t))
		for i := range t {
			out[i] = Args(translateMap(t[i]))
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i := range t {
			out[i] = translateMap(t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = translateValue(t[i])
		}
		return out
	default:
		return v
	}
}

func translateMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[DottedName(k)] = translateValue(v)
	}
	return out
}

func argsOf(list []Arg) Args {
	out := make(Args, len(list))
	for _, a := range list {
		out[a.Key] = a.Value
	}
	return out
}
