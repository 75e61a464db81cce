package fixtures_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := fixtures.Default()
	require.NoError(t, err)
	assert.Len(t, c.Categories, 5)
	assert.Len(t, c.Parts, 3)
	assert.Len(t, c.PartAttributes, 4)

	cat, ok := c.Category(4780)
	require.True(t, ok)
	assert.Equal(t, "Resistor Networks, Arrays", cat["nodename"])

	_, ok = c.Part(1)
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := fixtures.Load(fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categories.json")

	_, err = fixtures.Load(fstest.MapFS{
		"categories.json":     {Data: []byte(`[]`)},
		"parts.json":          {Data: []byte(`{`)},
		"partattributes.json": {Data: []byte(`[]`)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing fixture parts.json")
}

func TestSearchCategories(t *testing.T) {
	t.Parallel()

	c, err := fixtures.Default()
	require.NoError(t, err)

	hits := c.SearchCategories("resistor", 0)
	require.Len(t, hits, 3)
	assert.Equal(t, "<em>Resistor</em>s", hits[0].Highlight)

	assert.Len(t, c.SearchCategories("", 0), 5)
	assert.Len(t, c.SearchCategories("", 4161), 4)
}

func TestMatchBOM(t *testing.T) {
	t.Parallel()

	c, err := fixtures.Default()
	require.NoError(t, err)

	tests := []struct {
		name       string
		line       fixtures.BOMLine
		wantStatus string
		wantItems  int
	}{
		{name: "mpn", line: fixtures.BOMLine{MPN: "sn74ls240n"}, wantStatus: fixtures.StatusFound, wantItems: 1},
		{name: "sku with supplier", line: fixtures.BOMLine{SKU: "595-SN74LS240N", Supplier: "Mouser"}, wantStatus: fixtures.StatusFound, wantItems: 1},
		{name: "sku at other supplier", line: fixtures.BOMLine{SKU: "595-SN74LS240N", Supplier: "Digi-Key"}, wantStatus: fixtures.StatusNotFound},
		{name: "mpn with wrong manufacturer", line: fixtures.BOMLine{MPN: "SN74LS240N", Manufacturer: "Vishay"}, wantStatus: fixtures.StatusNotFound},
		{name: "free text", line: fixtures.BOMLine{Q: "0603"}, wantStatus: fixtures.StatusFound, wantItems: 2},
		{name: "free text paged", line: fixtures.BOMLine{Q: "0603", Start: 1, Limit: 1}, wantStatus: fixtures.StatusFound, wantItems: 1},
		{name: "no criteria", line: fixtures.BOMLine{Reference: "R1"}, wantStatus: fixtures.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := c.MatchBOM([]fixtures.BOMLine{tt.line})
			require.Len(t, res, 1)
			assert.Equal(t, tt.wantStatus, res[0].Status)
			assert.Len(t, res[0].Items, tt.wantItems)
			assert.Equal(t, tt.line.Reference, res[0].Reference)
		})
	}
}

func TestDrilldown(t *testing.T) {
	t.Parallel()

	c, err := fixtures.Default()
	require.NoError(t, err)

	drills := c.Drilldown(c.SearchParts(""), "case_package")
	require.Len(t, drills, 1)
	assert.Equal(t, []fixtures.Facet{
		{Value: "0603", Count: 2},
		{Value: "DIP-20", Count: 1},
		{Value: "PDIP", Count: 1},
	}, drills[0].Facets)
	assert.Equal(t, 0, drills[0].MissingCount)

	all := c.Drilldown(c.SearchParts(""), "")
	assert.Len(t, all, 4)
}

func TestOptimize_DoesNotMutate(t *testing.T) {
	t.Parallel()

	c, err := fixtures.Default()
	require.NoError(t, err)
	part, ok := c.Part(39619421)
	require.True(t, ok)

	out := fixtures.Optimize{HideUnauthorizedOffers: true, HideImages: true}.Apply(part)
	assert.NotContains(t, out, "images")
	assert.Len(t, out["offers"], 2)
	assert.Contains(t, part, "images")
	assert.Len(t, part["offers"], 3)
}
