// Package fixtures holds the canned Octopart v2 catalog served by the mock
// server. Records are kept as decoded JSON so they are served exactly as the
// real API would send them.
package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

//go:embed data/*.json
var embedded embed.FS

// Object is a decoded JSON object. Numbers are json.Number.
type Object = map[string]any

// Catalog is a read-only set of categories, parts and part attributes.
type Catalog struct {
	Categories     []Object
	Parts          []Object
	PartAttributes []Object
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded fixtures: %w", err)
	}
	return Load(sub)
}

// Load reads categories.json, parts.json and partattributes.json from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	files := []struct {
		name string
		dst  *[]Object
	}{
		{"categories.json", &c.Categories},
		{"parts.json", &c.Parts},
		{"partattributes.json", &c.PartAttributes},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("reading fixture %s: %w", f.name, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(f.dst); err != nil {
			return nil, fmt.Errorf("parsing fixture %s: %w", f.name, err)
		}
	}
	return c, nil
}

// Category returns the category with the given id.
func (c *Catalog) Category(id int64) (Object, bool) {
	return findByInt(c.Categories, "id", id)
}

// Part returns the part with the given uid.
func (c *Catalog) Part(uid int64) (Object, bool) {
	return findByInt(c.Parts, "uid", uid)
}

// PartAttribute returns the attribute with the given field name.
func (c *Catalog) PartAttribute(fieldname string) (Object, bool) {
	for _, a := range c.PartAttributes {
		if a["fieldname"] == fieldname {
			return a, true
		}
	}
	return nil, false
}

// Hit is a search result with its highlight snippet.
type Hit struct {
	Item      Object `json:"item"`
	Highlight string `json:"highlight"`
}

// SearchCategories matches q against category names. ancestorID, when
// non-zero, restricts results to descendants of that category.
func (c *Catalog) SearchCategories(q string, ancestorID int64) []Hit {
	var hits []Hit
	for _, cat := range c.Categories {
		if ancestorID != 0 && !slices.Contains(intList(cat["ancestor_ids"]), ancestorID) {
			continue
		}
		name, _ := cat["nodename"].(string)
		if !matchesAll(q, name) {
			continue
		}
		hits = append(hits, Hit{Item: cat, Highlight: highlight(name, q)})
	}
	return hits
}

// SearchParts matches q against part numbers, manufacturers, descriptions
// and text spec values.
func (c *Catalog) SearchParts(q string) []Hit {
	var hits []Hit
	for _, p := range c.Parts {
		text := partText(p)
		if !matchesAll(q, text) {
			continue
		}
		desc, _ := p["short_description"].(string)
		if desc == "" {
			desc, _ = p["mpn"].(string)
		}
		hits = append(hits, Hit{Item: p, Highlight: highlight(desc, q)})
	}
	return hits
}

// SuggestParts returns part numbers starting with q, case-insensitively.
func (c *Catalog) SuggestParts(q string, limit int) []string {
	out := []string{}
	for _, p := range c.Parts {
		mpn, _ := p["mpn"].(string)
		if strings.HasPrefix(strings.ToLower(mpn), strings.ToLower(q)) {
			out = append(out, mpn)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// MatchParts returns [uid, manufacturer, mpn] triples for parts made by
// manufacturer under mpn.
func (c *Catalog) MatchParts(manufacturer, mpn string) [][]any {
	out := [][]any{}
	for _, p := range c.Parts {
		name := manufacturerName(p)
		pmpn, _ := p["mpn"].(string)
		if strings.EqualFold(name, manufacturer) && strings.EqualFold(pmpn, mpn) {
			out = append(out, []any{p["uid"], name, pmpn})
		}
	}
	return out
}

// BOMLine is one line of a bom/match request.
type BOMLine struct {
	Q            string `json:"q"`
	MPN          string `json:"mpn"`
	Manufacturer string `json:"manufacturer"`
	SKU          string `json:"sku"`
	Supplier     string `json:"supplier"`
	MPNOrSKU     string `json:"mpn_or_sku"`
	Reference    string `json:"reference"`
	Start        int    `json:"start"`
	Limit        int    `json:"limit"`
}

// BOMResult is the match outcome of one BOM line.
type BOMResult struct {
	Items     []Object `json:"items"`
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
}

// BOM match statuses.
const (
	StatusFound    = "found"
	StatusNotFound = "not_found"
)

// MatchBOM matches every line against the catalog.
func (c *Catalog) MatchBOM(lines []BOMLine) []BOMResult {
	out := make([]BOMResult, 0, len(lines))
	for _, l := range lines {
		items := []Object{}
		for _, p := range c.Parts {
			if l.matches(p) {
				items = append(items, p)
			}
		}
		items = Page(items, l.Start, l.Limit, 3)
		status := StatusFound
		if len(items) == 0 {
			status = StatusNotFound
		}
		out = append(out, BOMResult{Items: items, Reference: l.Reference, Status: status})
	}
	return out
}

func (l BOMLine) matches(p Object) bool {
	mpn, _ := p["mpn"].(string)
	skus := offerSKUs(p, l.Supplier)
	switch {
	case l.MPN != "" && !strings.EqualFold(mpn, l.MPN):
		return false
	case l.Manufacturer != "" && !strings.EqualFold(manufacturerName(p), l.Manufacturer):
		return false
	case l.SKU != "" && !containsFold(skus, l.SKU):
		return false
	case l.MPNOrSKU != "" && !strings.EqualFold(mpn, l.MPNOrSKU) && !containsFold(skus, l.MPNOrSKU):
		return false
	case l.Q != "" && !matchesAll(l.Q, partText(p)):
		return false
	}
	return l.MPN != "" || l.SKU != "" || l.MPNOrSKU != "" || l.Q != ""
}

// Page applies start/limit to items. A non-positive limit uses def.
func Page[T any](items []T, start, limit, def int) []T {
	if limit <= 0 {
		limit = def
	}
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[max(start, 0):end]
}

func findByInt(list []Object, key string, want int64) (Object, bool) {
	for _, o := range list {
		if n, ok := toInt(o[key]); ok && n == want {
			return o, true
		}
	}
	return nil, false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case float64:
		return int64(t), t == float64(int64(t))
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func intList(v any) []int64 {
	l, _ := v.([]any)
	out := make([]int64, 0, len(l))
	for _, e := range l {
		if n, ok := toInt(e); ok {
			out = append(out, n)
		}
	}
	return out
}

func manufacturerName(p Object) string {
	m, _ := p["manufacturer"].(map[string]any)
	s, _ := m["displayname"].(string)
	return s
}

func offerSKUs(p Object, supplier string) []string {
	offers, _ := p["offers"].([]any)
	var out []string
	for _, o := range offers {
		offer, _ := o.(map[string]any)
		if supplier != "" {
			s, _ := offer["supplier"].(map[string]any)
			name, _ := s["displayname"].(string)
			if !strings.EqualFold(name, supplier) {
				continue
			}
		}
		if sku, ok := offer["sku"].(string); ok {
			out = append(out, sku)
		}
	}
	return out
}

func partText(p Object) string {
	parts := []string{manufacturerName(p)}
	for _, k := range []string{"mpn", "short_description"} {
		if s, ok := p[k].(string); ok {
			parts = append(parts, s)
		}
	}
	descs, _ := p["descriptions"].([]any)
	for _, d := range descs {
		m, _ := d.(map[string]any)
		if s, ok := m["text"].(string); ok {
			parts = append(parts, s)
		}
	}
	specs, _ := p["specs"].([]any)
	for _, sp := range specs {
		m, _ := sp.(map[string]any)
		values, _ := m["values"].([]any)
		for _, v := range values {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

// matchesAll reports whether every whitespace-separated term of q occurs in
// text, ignoring case. An empty query matches everything.
func matchesAll(q, text string) bool {
	text = strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(q)) {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func highlight(text, q string) string {
	out := text
	for _, term := range strings.Fields(q) {
		i := strings.Index(strings.ToLower(out), strings.ToLower(term))
		if i < 0 {
			continue
		}
		out = out[:i] + "<em>" + out[i:i+len(term)] + "</em>" + out[i+len(term):]
	}
	return out
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(e string) bool { return strings.EqualFold(e, s) })
}
