package octopart

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// BrandFromJSON maps a decoded brand object.
func BrandFromJSON(raw map[string]any) (domain.Brand, error) {
	r := newRecord("brand", raw)
	b := domain.Brand{
		ID:          r.requireInt("id"),
		DisplayName: r.string("displayname"),
		HomepageURL: r.string("homepage_url"),
	}
	return b, r.err
}

// CategoryFromJSON maps a decoded category object. Children ids are stored
// as a sorted set; ancestor ids keep the API's order. Ancestors may be raw
// objects or already mapped categories.
func CategoryFromJSON(raw map[string]any) (domain.Category, error) {
	r := newRecord("category", raw)
	c := domain.Category{
		ID:          r.requireInt("id"),
		ParentID:    r.optInt("parent_id"),
		NodeName:    r.string("nodename"),
		Images:      r.resources("images"),
		ChildrenIDs: r.intSet("children_ids"),
		AncestorIDs: r.intList("ancestor_ids"),
		NumParts:    r.int("num_parts"),
	}
	for i, a := range r.list("ancestors") {
		ancestor, err := resolve(fmt.Sprintf("category.ancestors[%d]", i), a, CategoryFromJSON)
		if err != nil {
			return domain.Category{}, err
		}
		c.Ancestors = append(c.Ancestors, ancestor)
	}
	return c, r.err
}

// PartAttributeFromJSON maps a decoded part attribute object.
func PartAttributeFromJSON(raw map[string]any) (domain.PartAttribute, error) {
	r := newRecord("partattribute", raw)
	a := domain.PartAttribute{
		FieldName:   r.requireString("fieldname"),
		DisplayName: r.string("displayname"),
		Type:        domain.AttributeType(r.string("type")),
		Metadata:    map[string]any{},
	}
	if m, ok := r.object("metadata"); ok {
		a.Metadata = copyMap(m)
	}
	return a, r.err
}

// PartFromJSON maps a decoded part object, including its offers and specs.
// Nested brands and attributes may already be mapped.
func PartFromJSON(raw map[string]any) (domain.Part, error) {
	r := newRecord("part", raw)
	p := domain.Part{
		UID:                    r.requireInt("uid"),
		MPN:                    r.requireString("mpn"),
		DetailURL:              r.string("detail_url"),
		AvgPrice:               r.optFloat("avg_price"),
		AvgAvailability:        r.optInt("avg_avail"),
		MarketStatus:           r.string("market_status"),
		NumSuppliers:           r.optInt("num_suppliers"),
		NumAuthorizedSuppliers: r.optInt("num_authsuppliers"),
		ShortDescription:       r.string("short_description"),
		CategoryIDs:            r.intSet("category_ids"),
		Images:                 r.resources("images"),
		Datasheets:             r.resources("datasheets"),
		Descriptions:           r.resources("descriptions"),
		Hyperlinks:             r.stringMap("hyperlinks"),
	}
	if r.err != nil {
		return domain.Part{}, r.err
	}

	m, ok := r.m["manufacturer"]
	if !ok || m == nil {
		return domain.Part{}, fmt.Errorf("%w: part.manufacturer is missing", ErrMalformedResource)
	}
	brand, err := resolve("part.manufacturer", m, BrandFromJSON)
	if err != nil {
		return domain.Part{}, err
	}
	p.Manufacturer = brand

	for i, o := range r.list("offers") {
		offer, err := resolve(fmt.Sprintf("part.offers[%d]", i), o, offerFromJSON)
		if err != nil {
			return domain.Part{}, err
		}
		p.Offers = append(p.Offers, offer)
	}
	for i, s := range r.list("specs") {
		spec, err := resolve(fmt.Sprintf("part.specs[%d]", i), s, specFromJSON)
		if err != nil {
			return domain.Part{}, err
		}
		p.Specs = append(p.Specs, spec)
	}
	if p.Offers == nil {
		p.Offers = []domain.Offer{}
	}
	if p.Specs == nil {
		p.Specs = []domain.Spec{}
	}
	if r.err != nil {
		return domain.Part{}, r.err
	}
	return p, nil
}

func offerFromJSON(raw map[string]any) (domain.Offer, error) {
	r := newRecord("offer", raw)
	o := domain.Offer{
		SKU:             r.string("sku"),
		Availability:    r.int("avail"),
		IsAuthorized:    r.bool("is_authorized"),
		ClickthroughURL: r.string("clickthrough_url"),
		BuyNowURL:       r.string("buynow_url"),
		SendRFQURL:      r.string("sendrfq_url"),
		UpdatedAt:       r.timestamp("update_ts"),
	}
	if r.err != nil {
		return domain.Offer{}, r.err
	}
	if s, ok := r.value("supplier"); ok {
		supplier, err := resolve("offer.supplier", s, BrandFromJSON)
		if err != nil {
			return domain.Offer{}, err
		}
		o.Supplier = supplier
	}
	prices, err := pricesFromJSON(r.m["prices"])
	if err != nil {
		return domain.Offer{}, err
	}
	o.Prices = prices
	return o, nil
}

// pricesFromJSON reads {"USD": [[qty, price], ...]} or an already mapped
// price table.
func pricesFromJSON(v any) (map[string][]domain.PriceBreak, error) {
	out := map[string][]domain.PriceBreak{}
	switch t := v.(type) {
	case nil:
		return out, nil
	case map[string][]domain.PriceBreak:
		for cur, breaks := range t {
			out[cur] = slices.Clone(breaks)
		}
		return out, nil
	}
	m, ok := mapValue(v)
	if !ok {
		return nil, fmt.Errorf("%w: offer.prices is %T, not an object", ErrMalformedResource, v)
	}
	for _, cur := range slices.Sorted(maps.Keys(m)) {
		steps, ok := listValue(m[cur])
		if !ok {
			return nil, fmt.Errorf("%w: offer.prices[%q] is not a list", ErrMalformedResource, cur)
		}
		breaks := make([]domain.PriceBreak, 0, len(steps))
		for i, step := range steps {
			pb, err := priceBreakFromJSON(step)
			if err != nil {
				return nil, fmt.Errorf("%w: offer.prices[%q][%d]: %v", ErrMalformedResource, cur, i, err)
			}
			breaks = append(breaks, pb)
		}
		out[cur] = breaks
	}
	return out, nil
}

var errNotPriceBreak = errors.New("not a [quantity, price] pair")

func priceBreakFromJSON(v any) (domain.PriceBreak, error) {
	if pb, ok := v.(domain.PriceBreak); ok {
		return pb, nil
	}
	pair, ok := listValue(v)
	if !ok || len(pair) != 2 {
		return domain.PriceBreak{}, errNotPriceBreak
	}
	qty, ok := jsonInt(pair[0])
	if !ok {
		return domain.PriceBreak{}, fmt.Errorf("quantity %v is not an integer", pair[0])
	}
	price, ok := jsonFloat(pair[1])
	if !ok {
		return domain.PriceBreak{}, fmt.Errorf("price %v is not a number", pair[1])
	}
	return domain.PriceBreak{Quantity: qty, Price: price}, nil
}

func specFromJSON(raw map[string]any) (domain.Spec, error) {
	r := newRecord("spec", raw)
	s := domain.Spec{Values: []string{}}
	for _, v := range r.list("values") {
		s.Values = append(s.Values, scalarString(v))
	}
	if r.err != nil {
		return domain.Spec{}, r.err
	}
	a, ok := r.value("attribute")
	if !ok {
		return domain.Spec{}, fmt.Errorf("%w: spec.attribute is missing", ErrMalformedResource)
	}
	attr, err := resolve("spec.attribute", a, PartAttributeFromJSON)
	if err != nil {
		return domain.Spec{}, err
	}
	s.Attribute = attr
	return s, nil
}

// DrilldownFromJSON maps one drilldown entry of a part search.
func DrilldownFromJSON(raw map[string]any) (domain.Drilldown, error) {
	r := newRecord("drilldown", raw)
	d := domain.Drilldown{
		MissingCount: r.int("missing_count"),
		Facets:       []domain.Facet{},
	}
	for i, f := range r.list("facets") {
		fm, ok := mapValue(f)
		if !ok {
			return domain.Drilldown{}, fmt.Errorf("%w: drilldown.facets[%d] is %T, not an object", ErrMalformedResource, i, f)
		}
		fr := newRecord("facet", fm)
		facet := domain.Facet{Count: fr.int("count")}
		if v, ok := fr.value("value"); ok {
			facet.Value = scalarString(v)
		}
		if fr.err != nil {
			return domain.Drilldown{}, fr.err
		}
		d.Facets = append(d.Facets, facet)
	}
	if r.err != nil {
		return domain.Drilldown{}, r.err
	}
	if a, ok := r.value("attribute"); ok {
		attr, err := resolve("drilldown.attribute", a, PartAttributeFromJSON)
		if err != nil {
			return domain.Drilldown{}, err
		}
		d.Attribute = attr
	}
	return d, nil
}

func categoryHitFromJSON(raw map[string]any) (domain.CategoryHit, error) {
	r := newRecord("category hit", raw)
	hit := domain.CategoryHit{Highlight: r.string("highlight")}
	if r.err != nil {
		return hit, r.err
	}
	c, err := resolve("category hit.item", r.m["item"], CategoryFromJSON)
	if err != nil {
		return domain.CategoryHit{}, err
	}
	hit.Category = c
	return hit, nil
}

func partHitFromJSON(raw map[string]any) (domain.PartHit, error) {
	r := newRecord("part hit", raw)
	hit := domain.PartHit{Highlight: r.string("highlight")}
	if r.err != nil {
		return hit, r.err
	}
	p, err := resolve("part hit.item", r.m["item"], PartFromJSON)
	if err != nil {
		return domain.PartHit{}, err
	}
	hit.Part = p
	return hit, nil
}

func bomResultFromJSON(raw map[string]any) (domain.BOMResult, error) {
	r := newRecord("bom result", raw)
	res := domain.BOMResult{
		Reference: r.string("reference"),
		Status:    r.string("status"),
		Items:     []domain.Part{},
	}
	items := r.list("items")
	if r.err != nil {
		return domain.BOMResult{}, r.err
	}
	for i, it := range items {
		p, err := resolve(fmt.Sprintf("bom result.items[%d]", i), it, PartFromJSON)
		if err != nil {
			return domain.BOMResult{}, err
		}
		res.Items = append(res.Items, p)
	}
	return res, nil
}

// mapList maps every element of a decoded list.
func mapList[T any](what string, l []any, build func(map[string]any) (T, error)) ([]T, error) {
	out := make([]T, 0, len(l))
	for i, e := range l {
		v, err := resolve(fmt.Sprintf("%s[%d]", what, i), e, build)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
