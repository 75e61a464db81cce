package octopart

import (
	"maps"
	"reflect"
	"slices"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// Hide marks a part section omitted from a response through the matching
// optimize.hide_* argument. Hidden sections are skipped by PartEqualsJSON.
type Hide uint8

// Hide flags.
const (
	HideImages Hide = 1 << iota
	HideDatasheets
	HideDescriptions
	HideOffers
	HideUnauthorizedOffers
	HideSpecs
)

func hideMask(flags []Hide) Hide {
	var h Hide
	for _, f := range flags {
		h |= f
	}
	return h
}

// EqualsJSON reports whether a mapped record matches a decoded JSON object.
// It accepts Brand, Category, PartAttribute and Part values or pointers;
// hide flags apply only to parts.
func EqualsJSON(v any, raw map[string]any, hide ...Hide) bool {
	switch t := v.(type) {
	case domain.Brand:
		return BrandEqualsJSON(t, raw)
	case *domain.Brand:
		return t != nil && BrandEqualsJSON(*t, raw)
	case domain.Category:
		return CategoryEqualsJSON(t, raw)
	case *domain.Category:
		return t != nil && CategoryEqualsJSON(*t, raw)
	case domain.PartAttribute:
		return PartAttributeEqualsJSON(t, raw)
	case *domain.PartAttribute:
		return t != nil && PartAttributeEqualsJSON(*t, raw)
	case domain.Part:
		return PartEqualsJSON(t, raw, hide...)
	case *domain.Part:
		return t != nil && PartEqualsJSON(*t, raw, hide...)
	default:
		return false
	}
}

// BrandEqualsJSON compares a brand with a decoded brand object.
func BrandEqualsJSON(b domain.Brand, raw map[string]any) bool {
	id, ok := jsonInt(raw["id"])
	return ok && id == b.ID &&
		textOf(raw["displayname"]) == b.DisplayName &&
		textOf(raw["homepage_url"]) == b.HomepageURL
}

// CategoryEqualsJSON compares a category with a decoded category object.
// Children ids and images compare as sets; ancestor ids compare in order.
func CategoryEqualsJSON(c domain.Category, raw map[string]any) bool {
	id, ok := jsonInt(raw["id"])
	if !ok || id != c.ID {
		return false
	}
	if !optIntEqual(c.ParentID, raw["parent_id"]) ||
		textOf(raw["nodename"]) != c.NodeName ||
		intOf(raw["num_parts"]) != c.NumParts {
		return false
	}
	r := newRecord("category", raw)
	if !slices.Equal(r.intSet("children_ids"), uniqueSorted(c.ChildrenIDs)) ||
		!slices.Equal(r.intList("ancestor_ids"), c.AncestorIDs) || r.err != nil {
		return false
	}
	if !resourcesEqual(c.Images, raw["images"]) {
		return false
	}
	ancestors, _ := listValue(raw["ancestors"])
	if len(ancestors) != len(c.Ancestors) {
		return false
	}
	for i, a := range ancestors {
		if !nestedEqual(c.Ancestors[i], a, CategoryEqualsJSON) {
			return false
		}
	}
	return true
}

// PartAttributeEqualsJSON compares an attribute with a decoded attribute
// object. Absent metadata equals an empty mapping.
func PartAttributeEqualsJSON(a domain.PartAttribute, raw map[string]any) bool {
	if textOf(raw["fieldname"]) != a.FieldName ||
		textOf(raw["displayname"]) != a.DisplayName ||
		textOf(raw["type"]) != string(a.Type) {
		return false
	}
	meta, _ := mapValue(raw["metadata"])
	if len(meta) == 0 && len(a.Metadata) == 0 {
		return true
	}
	return canonicalJSON(meta) == canonicalJSON(a.Metadata)
}

// PartEqualsJSON compares a part with a decoded part object, skipping the
// sections named by hide. Collections compare as multisets and an absent
// short description equals the empty string.
func PartEqualsJSON(p domain.Part, raw map[string]any, hide ...Hide) bool {
	h := hideMask(hide)

	uid, ok := jsonInt(raw["uid"])
	if !ok || uid != p.UID ||
		textOf(raw["mpn"]) != p.MPN ||
		textOf(raw["detail_url"]) != p.DetailURL ||
		textOf(raw["market_status"]) != p.MarketStatus ||
		textOf(raw["short_description"]) != p.ShortDescription {
		return false
	}
	if !nestedEqual(p.Manufacturer, raw["manufacturer"], BrandEqualsJSON) {
		return false
	}

	r := newRecord("part", raw)
	if !ptrEqual(r.optFloat("avg_price"), p.AvgPrice) ||
		!ptrEqual(r.optInt("avg_avail"), p.AvgAvailability) ||
		!ptrEqual(r.optInt("num_suppliers"), p.NumSuppliers) ||
		!ptrEqual(r.optInt("num_authsuppliers"), p.NumAuthorizedSuppliers) ||
		!slices.Equal(r.intSet("category_ids"), uniqueSorted(p.CategoryIDs)) ||
		!maps.Equal(r.stringMap("hyperlinks"), nonNil(p.Hyperlinks)) ||
		r.err != nil {
		return false
	}

	if h&HideImages == 0 && !resourcesEqual(p.Images, raw["images"]) {
		return false
	}
	if h&HideDatasheets == 0 && !resourcesEqual(p.Datasheets, raw["datasheets"]) {
		return false
	}
	if h&HideDescriptions == 0 && !resourcesEqual(p.Descriptions, raw["descriptions"]) {
		return false
	}
	if h&HideOffers == 0 {
		offers, _ := listValue(raw["offers"])
		mine := p.Offers
		if h&HideUnauthorizedOffers != 0 {
			mine = p.AuthorizedOffers()
			offers = slices.DeleteFunc(slices.Clone(offers), func(o any) bool {
				if typed, ok := o.(domain.Offer); ok {
					return !typed.IsAuthorized
				}
				m, _ := mapValue(o)
				b, _ := jsonBool(m["is_authorized"])
				return !b
			})
		}
		if !multisetEqual(mine, offers, func(o domain.Offer, v any) bool {
			return nestedEqual(o, v, offerEqualsJSON)
		}) {
			return false
		}
	}
	if h&HideSpecs == 0 {
		specs, _ := listValue(raw["specs"])
		if !multisetEqual(p.Specs, specs, func(s domain.Spec, v any) bool {
			return nestedEqual(s, v, specEqualsJSON)
		}) {
			return false
		}
	}
	return true
}

func offerEqualsJSON(o domain.Offer, raw map[string]any) bool {
	if textOf(raw["sku"]) != o.SKU ||
		intOf(raw["avail"]) != o.Availability ||
		textOf(raw["clickthrough_url"]) != o.ClickthroughURL ||
		textOf(raw["buynow_url"]) != o.BuyNowURL ||
		textOf(raw["sendrfq_url"]) != o.SendRFQURL {
		return false
	}
	if auth, _ := jsonBool(raw["is_authorized"]); auth != o.IsAuthorized {
		return false
	}
	if s, ok := raw["supplier"]; ok && s != nil {
		if !nestedEqual(o.Supplier, s, BrandEqualsJSON) {
			return false
		}
	} else if o.Supplier != (domain.Brand{}) {
		return false
	}

	ts, err := parseTimestamp(raw["update_ts"])
	if err != nil || (ts == nil) != (o.UpdatedAt == nil) ||
		(ts != nil && !ts.Equal(*o.UpdatedAt)) {
		return false
	}

	prices, err := pricesFromJSON(raw["prices"])
	if err != nil || len(prices) != len(o.Prices) {
		return false
	}
	for cur, breaks := range prices {
		if !slices.Equal(breaks, o.Prices[cur]) {
			return false
		}
	}
	return true
}

func specEqualsJSON(s domain.Spec, raw map[string]any) bool {
	if !nestedEqual(s.Attribute, raw["attribute"], PartAttributeEqualsJSON) {
		return false
	}
	values, _ := listValue(raw["values"])
	got := make([]string, 0, len(values))
	for _, v := range values {
		got = append(got, scalarString(v))
	}
	want := slices.Clone(s.Values)
	slices.Sort(got)
	slices.Sort(want)
	return slices.Equal(got, want)
}

// nestedEqual compares a mapped value with a nested payload element, which
// is either a decoded object or an already mapped value of the same type.
func nestedEqual[T any](v T, elem any, eq func(T, map[string]any) bool) bool {
	src, ok := sourceOf[T](elem)
	if !ok {
		return false
	}
	if src.IsTyped() {
		return reflect.DeepEqual(v, src.value)
	}
	return eq(v, src.raw)
}

// multisetEqual pairs every mapped element with a distinct payload element.
func multisetEqual[T any](mine []T, theirs []any, eq func(T, any) bool) bool {
	if len(mine) != len(theirs) {
		return false
	}
	used := make([]bool, len(theirs))
	for _, m := range mine {
		found := false
		for i, t := range theirs {
			if !used[i] && eq(m, t) {
				used[i], found = true, true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func resourcesEqual(mine []domain.Resource, raw any) bool {
	theirs, _ := listValue(raw)
	if len(mine) != len(theirs) {
		return false
	}
	a := make([]string, 0, len(mine))
	for _, r := range mine {
		a = append(a, canonicalJSON(map[string]any(r)))
	}
	b := make([]string, 0, len(theirs))
	for _, r := range theirs {
		b = append(b, canonicalJSON(r))
	}
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func textOf(v any) string {
	s, _ := stringValue(v)
	return s
}

func intOf(v any) int64 {
	n, _ := jsonInt(v)
	return n
}

func optIntEqual(p *int64, v any) bool {
	if v == nil {
		return p == nil
	}
	n, ok := jsonInt(v)
	return ok && p != nil && *p == n
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uniqueSorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
