// Package domain defines the parts-search records produced from Octopart API
// responses.
package domain

import (
	"slices"
	"time"
)

// AttributeType is the value type of a part attribute.
type AttributeType string

// Attribute type constants.
const (
	AttributeText   AttributeType = "text"
	AttributeNumber AttributeType = "number"
)

// Valid reports whether t is a known attribute type.
func (t AttributeType) Valid() bool {
	return t == AttributeText || t == AttributeNumber
}

// Resource is an open record attached to a category or part, such as an
// image (url, url_30px, credit_url, ...), a datasheet (url, score) or a
// description (text, credit_domain, ...).
type Resource map[string]any

// URL returns the resource's "url" field, if present.
func (r Resource) URL() string {
	s, _ := r["url"].(string)
	return s
}

// Brand is a manufacturer or supplier.
type Brand struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayname"`
	HomepageURL string `json:"homepage_url"`
}

// Category is a node of the part category tree.
type Category struct {
	ID          int64      `json:"id"`
	ParentID    *int64     `json:"parent_id"`
	NodeName    string     `json:"nodename"`
	Images      []Resource `json:"images"`
	ChildrenIDs []int64    `json:"children_ids"`
	// AncestorIDs is ordered immediate parent first.
	AncestorIDs []int64    `json:"ancestor_ids"`
	Ancestors   []Category `json:"ancestors,omitempty"`
	NumParts    int64      `json:"num_parts"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// HasChild reports whether id is one of the category's children.
func (c *Category) HasChild(id int64) bool {
	_, found := slices.BinarySearch(c.ChildrenIDs, id)
	return found
}

// PartAttribute describes a searchable part specification field.
type PartAttribute struct {
	FieldName   string         `json:"fieldname"`
	DisplayName string         `json:"displayname"`
	Type        AttributeType  `json:"type"`
	Metadata    map[string]any `json:"metadata"`
}

// Datatype returns the numeric datatype ("integer", "decimal", ...) of a
// number attribute.
func (a *PartAttribute) Datatype() string {
	s, _ := a.Metadata["datatype"].(string)
	return s
}

// UnitName returns the unit name of a number attribute, e.g. "farad".
func (a *PartAttribute) UnitName() string {
	unit, ok := a.Metadata["unit"].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := unit["name"].(string)
	return s
}

// UnitSymbol returns the unit symbol of a number attribute, e.g. "F".
func (a *PartAttribute) UnitSymbol() string {
	unit, ok := a.Metadata["unit"].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := unit["symbol"].(string)
	return s
}

// PriceBreak is a single quantity/unit-price step of an offer.
type PriceBreak struct {
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// Offer is a supplier's listing of a part.
type Offer struct {
	Supplier        Brand                   `json:"supplier"`
	SKU             string                  `json:"sku"`
	Availability    int64                   `json:"avail"`
	Prices          map[string][]PriceBreak `json:"prices"`
	IsAuthorized    bool                    `json:"is_authorized"`
	ClickthroughURL string                  `json:"clickthrough_url,omitempty"`
	BuyNowURL       string                  `json:"buynow_url,omitempty"`
	SendRFQURL      string                  `json:"sendrfq_url,omitempty"`
	UpdatedAt       *time.Time              `json:"update_ts,omitempty"`
}

// UnitPrice returns the unit price in currency for quantity, using the
// largest price break not exceeding quantity.
func (o *Offer) UnitPrice(currency string, quantity int64) (float64, bool) {
	var (
		price float64
		found bool
	)
	for _, pb := range o.Prices[currency] {
		if pb.Quantity <= quantity {
			price, found = pb.Price, true
		}
	}
	return price, found
}

// Spec is one attribute value set of a part.
type Spec struct {
	Attribute PartAttribute `json:"attribute"`
	Values    []string      `json:"values"`
}

// Part is a manufactured component identified by its Octopart uid.
type Part struct {
	UID          int64  `json:"uid"`
	MPN          string `json:"mpn"`
	Manufacturer Brand  `json:"manufacturer"`
	DetailURL    string `json:"detail_url"`

	AvgPrice               *float64 `json:"avg_price,omitempty"`
	AvgAvailability        *int64   `json:"avg_avail,omitempty"`
	MarketStatus           string   `json:"market_status,omitempty"`
	NumSuppliers           *int64   `json:"num_suppliers,omitempty"`
	NumAuthorizedSuppliers *int64   `json:"num_authsuppliers,omitempty"`
	ShortDescription       string   `json:"short_description"`

	CategoryIDs  []int64           `json:"category_ids"`
	Images       []Resource        `json:"images"`
	Datasheets   []Resource        `json:"datasheets"`
	Descriptions []Resource        `json:"descriptions"`
	Hyperlinks   map[string]string `json:"hyperlinks"`
	Offers       []Offer           `json:"offers"`
	Specs        []Spec            `json:"specs"`
}

// AuthorizedOffers returns the offers made by authorized suppliers.
func (p *Part) AuthorizedOffers() []Offer {
	out := make([]Offer, 0, len(p.Offers))
	for i := range p.Offers {
		if p.Offers[i].IsAuthorized {
			out = append(out, p.Offers[i])
		}
	}
	return out
}

// Spec returns the spec for the given attribute field name.
func (p *Part) Spec(fieldName string) (Spec, bool) {
	for _, s := range p.Specs {
		if s.Attribute.FieldName == fieldName {
			return s, true
		}
	}
	return Spec{}, false
}

// CategoryHit is a category search result with its highlight snippet.
type CategoryHit struct {
	Category  Category `json:"item"`
	Highlight string   `json:"highlight"`
}

// PartHit is a part search result with its highlight snippet.
type PartHit struct {
	Part      Part   `json:"item"`
	Highlight string `json:"highlight"`
}

// Facet is one value bucket of a drilldown.
type Facet struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Drilldown is the faceted refinement of a part search for one attribute.
type Drilldown struct {
	Attribute    PartAttribute `json:"attribute"`
	Facets       []Facet       `json:"facets"`
	MissingCount int64         `json:"missing_count"`
}

// PartSearchResult is the outcome of a part search.
type PartSearchResult struct {
	Hits      []PartHit   `json:"results"`
	HitCount  int64       `json:"hits"`
	Drilldown []Drilldown `json:"drilldown,omitempty"`
}

// PartMatch is a (uid, manufacturer, mpn) match for a manufacturer/mpn pair.
type PartMatch struct {
	UID          int64  `json:"uid"`
	Manufacturer string `json:"manufacturer"`
	MPN          string `json:"mpn"`
}

// BOMResult is the match outcome of a single BOM line.
type BOMResult struct {
	Items     []Part `json:"items"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
