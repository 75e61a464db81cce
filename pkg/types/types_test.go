package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

func TestBrand_Comparable(t *testing.T) {
	t.Parallel()

	a := domain.Brand{ID: 370, DisplayName: "Texas Instruments", HomepageURL: "http://www.ti.com"}
	b := domain.Brand{ID: 370, DisplayName: "Texas Instruments", HomepageURL: "http://www.ti.com"}
	assert.Equal(t, a, b)
	assert.True(t, a == b)

	seen := map[domain.Brand]int{a: 1}
	seen[b]++
	assert.Len(t, seen, 1)
	assert.Equal(t, 2, seen[a])
}

func TestCategory(t *testing.T) {
	t.Parallel()

	parent := int64(4161)
	c := domain.Category{ID: 4174, ParentID: &parent, ChildrenIDs: []int64{4175, 4780}}
	assert.False(t, c.IsRoot())
	assert.True(t, c.HasChild(4780))
	assert.False(t, c.HasChild(4174))
	assert.True(t, (&domain.Category{ID: 4161}).IsRoot())
}

func TestPartAttribute_Metadata(t *testing.T) {
	t.Parallel()

	a := domain.PartAttribute{
		FieldName: "capacitance",
		Type:      domain.AttributeNumber,
		Metadata: map[string]any{
			"datatype": "decimal",
			"unit":     map[string]any{"name": "farad", "symbol": "F"},
		},
	}
	assert.Equal(t, "decimal", a.Datatype())
	assert.Equal(t, "farad", a.UnitName())
	assert.Equal(t, "F", a.UnitSymbol())

	text := domain.PartAttribute{FieldName: "case_package", Type: domain.AttributeText}
	assert.Empty(t, text.Datatype())
	assert.Empty(t, text.UnitName())
	assert.Empty(t, text.UnitSymbol())

	assert.True(t, domain.AttributeText.Valid())
	assert.False(t, domain.AttributeType("date").Valid())
}

func TestOffer_UnitPrice(t *testing.T) {
	t.Parallel()

	o := domain.Offer{Prices: map[string][]domain.PriceBreak{
		"USD": {{Quantity: 1, Price: 0.52}, {Quantity: 10, Price: 0.45}, {Quantity: 100, Price: 0.38}},
	}}

	tests := []struct {
		name      string
		currency  string
		quantity  int64
		wantPrice float64
		wantOK    bool
	}{
		{name: "single unit", currency: "USD", quantity: 1, wantPrice: 0.52, wantOK: true},
		{name: "between breaks", currency: "USD", quantity: 50, wantPrice: 0.45, wantOK: true},
		{name: "above last break", currency: "USD", quantity: 5000, wantPrice: 0.38, wantOK: true},
		{name: "below first break", currency: "USD", quantity: 0},
		{name: "unknown currency", currency: "EUR", quantity: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := o.UnitPrice(tt.currency, tt.quantity)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantPrice, got, 1e-9)
		})
	}
}

func TestPart_Lookups(t *testing.T) {
	t.Parallel()

	p := domain.Part{
		Offers: []domain.Offer{
			{SKU: "296-1667-5-ND", IsAuthorized: true},
			{SKU: "WS-SN74", IsAuthorized: false},
		},
		Specs: []domain.Spec{
			{Attribute: domain.PartAttribute{FieldName: "logic_family"}, Values: []string{"LS"}},
		},
	}

	auth := p.AuthorizedOffers()
	assert.Len(t, auth, 1)
	assert.Equal(t, "296-1667-5-ND", auth[0].SKU)

	s, ok := p.Spec("logic_family")
	assert.True(t, ok)
	assert.Equal(t, []string{"LS"}, s.Values)

	_, ok = p.Spec("resistance")
	assert.False(t, ok)
}

func TestResource_URL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://x/ds.pdf", domain.Resource{"url": "http://x/ds.pdf", "score": 1}.URL())
	assert.Empty(t, domain.Resource{"text": "no link"}.URL())
}
