package fixtures

import (
	"cmp"
	"fmt"
	"slices"
)

// Facet is one value bucket of a drilldown.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Drilldown is the facet breakdown of one attribute over a result set.
type Drilldown struct {
	Attribute    Object  `json:"attribute"`
	Facets       []Facet `json:"facets"`
	MissingCount int     `json:"missing_count"`
}

// Drilldown counts the spec values of the hit parts for every catalog
// attribute, or only for fieldname when it is set. Facets are ordered by
// count, then value.
func (c *Catalog) Drilldown(hits []Hit, fieldname string) []Drilldown {
	out := []Drilldown{}
	for _, attr := range c.PartAttributes {
		name, _ := attr["fieldname"].(string)
		if fieldname != "" && name != fieldname {
			continue
		}
		counts := map[string]int{}
		missing := 0
		for _, h := range hits {
			values, ok := specValues(h.Item, name)
			if !ok {
				missing++
				continue
			}
			for _, v := range values {
				counts[v]++
			}
		}
		facets := make([]Facet, 0, len(counts))
		for v, n := range counts {
			facets = append(facets, Facet{Value: v, Count: n})
		}
		slices.SortFunc(facets, func(a, b Facet) int {
			if a.Count != b.Count {
				return cmp.Compare(b.Count, a.Count)
			}
			return cmp.Compare(a.Value, b.Value)
		})
		out = append(out, Drilldown{Attribute: attr, Facets: facets, MissingCount: missing})
	}
	return out
}

func specValues(p Object, fieldname string) ([]string, bool) {
	specs, _ := p["specs"].([]any)
	for _, s := range specs {
		spec, _ := s.(map[string]any)
		attr, _ := spec["attribute"].(map[string]any)
		if attr["fieldname"] != fieldname {
			continue
		}
		raw, _ := spec["values"].([]any)
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			values = append(values, fmt.Sprint(v))
		}
		return values, true
	}
	return nil, false
}
