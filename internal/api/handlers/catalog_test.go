package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
	"github.com/donaldgifford/partsearch/internal/api/handlers"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()

	catalog, err := fixtures.Default()
	require.NoError(t, err)

	_, api := humatest.New(t)
	handlers.RegisterRoutes(api, handlers.NewCatalogHandler(catalog))
	return api
}

func path(endpoint string, q url.Values) string {
	return handlers.APIPrefix + "/" + endpoint + "?" + q.Encode()
}

func decode(t *testing.T, body []byte) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestGetCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantName   string
	}{
		{name: "known id", id: "4174", wantStatus: http.StatusOK, wantName: "Resistors"},
		{name: "root category", id: "4161", wantStatus: http.StatusOK, wantName: "Electronic Parts"},
		{name: "unknown id", id: "1", wantStatus: http.StatusNotFound},
		{name: "non-integer id", id: "abc", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			resp := api.Get(path("categories/get", url.Values{"id": {tt.id}}))
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantName == "" {
				return
			}
			got, ok := decode(t, resp.Body.Bytes()).(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, got["nodename"])
		})
	}
}

func TestGetCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ids        string
		wantStatus int
		wantIDs    []float64
	}{
		{name: "keeps request order", ids: "[4215,4174,4780]", wantStatus: http.StatusOK, wantIDs: []float64{4215, 4174, 4780}},
		{name: "empty list", ids: "[]", wantStatus: http.StatusOK, wantIDs: []float64{}},
		{name: "one unknown id", ids: "[4174,1]", wantStatus: http.StatusNotFound},
		{name: "not a JSON list", ids: "4174", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			resp := api.Get(path("categories/get_multi", url.Values{"ids": {tt.ids}}))
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantIDs == nil {
				return
			}
			list, ok := decode(t, resp.Body.Bytes()).([]any)
			require.True(t, ok)
			got := []float64{}
			for _, c := range list {
				got = append(got, c.(map[string]any)["id"].(float64))
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestSearchCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    url.Values
		wantHits float64
		wantIDs  []float64
	}{
		{
			name:     "matches every resistor category",
			query:    url.Values{"q": {"resistor"}},
			wantHits: 3,
			wantIDs:  []float64{4174, 4175, 4780},
		},
		{
			name:     "limit pages results but not the hit count",
			query:    url.Values{"q": {"resistor"}, "limit": {"1"}, "start": {"1"}},
			wantHits: 3,
			wantIDs:  []float64{4175},
		},
		{
			name:     "ancestor filter",
			query:    url.Values{"ancestor_id": {"4174"}},
			wantHits: 2,
			wantIDs:  []float64{4175, 4780},
		},
		{
			name:     "no match",
			query:    url.Values{"q": {"inductor"}},
			wantHits: 0,
			wantIDs:  []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			resp := api.Get(path("categories/search", tt.query))
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			body := decode(t, resp.Body.Bytes()).(map[string]any)
			assert.InDelta(t, tt.wantHits, body["hits"], 0)
			got := []float64{}
			for _, r := range body["results"].([]any) {
				got = append(got, r.(map[string]any)["item"].(map[string]any)["id"].(float64))
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestSearchCategories_LimitOutOfRange(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	resp := api.Get(path("categories/search", url.Values{"limit": {"101"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetPart_Optimize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      url.Values
		wantStatus int
		wantOffers int
		wantAbsent []string
	}{
		{
			name:       "full record",
			query:      url.Values{"uid": {"39619421"}},
			wantStatus: http.StatusOK,
			wantOffers: 3,
		},
		{
			name:       "hide unauthorized offers",
			query:      url.Values{"uid": {"39619421"}, "optimize.hide_unauthorized_offers": {"true"}},
			wantStatus: http.StatusOK,
			wantOffers: 2,
		},
		{
			name: "hide offers and specs",
			query: url.Values{
				"uid":                  {"39619421"},
				"optimize.hide_offers": {"true"},
				"optimize.hide_specs":  {"true"},
			},
			wantStatus: http.StatusOK,
			wantOffers: -1,
			wantAbsent: []string{"offers", "specs"},
		},
		{
			name:       "unknown uid",
			query:      url.Values{"uid": {"1"}},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			resp := api.Get(path("parts/get", tt.query))
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			part := decode(t, resp.Body.Bytes()).(map[string]any)
			assert.Equal(t, "SN74LS240N", part["mpn"])
			for _, k := range tt.wantAbsent {
				assert.NotContains(t, part, k)
			}
			if tt.wantOffers >= 0 {
				assert.Len(t, part["offers"], tt.wantOffers)
			}
		})
	}
}

func TestGetParts(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	resp := api.Get(path("parts/get_multi", url.Values{"uids": {"[29035751,31119928]"}}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	list := decode(t, resp.Body.Bytes()).([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "CRCW060310K0FKEA", list[0].(map[string]any)["mpn"])
	assert.Equal(t, "GRM188R71H104KA93D", list[1].(map[string]any)["mpn"])

	resp = api.Get(path("parts/get_multi", url.Values{"uids": {"[29035751,1]"}}))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchParts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         url.Values
		wantHits      float64
		wantDrilldown bool
	}{
		{
			name:     "by part number",
			query:    url.Values{"q": {"SN74LS240N"}},
			wantHits: 1,
		},
		{
			name:     "by manufacturer",
			query:    url.Values{"q": {"vishay"}},
			wantHits: 1,
		},
		{
			name:          "drilldown on request",
			query:         url.Values{"q": {""}, "drilldown.include": {"true"}},
			wantHits:      3,
			wantDrilldown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			resp := api.Get(path("parts/search", tt.query))
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			body := decode(t, resp.Body.Bytes()).(map[string]any)
			assert.InDelta(t, tt.wantHits, body["hits"], 0)
			if tt.wantDrilldown {
				assert.NotEmpty(t, body["drilldown"])
			} else {
				assert.NotContains(t, body, "drilldown")
			}
		})
	}
}

func TestSuggestParts(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	resp := api.Get(path("parts/suggest", url.Values{"q": {"sn74"}}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"results":["SN74LS240N"]}`, resp.Body.String())

	resp = api.Get(path("parts/suggest", url.Values{"q": {"s"}}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestMatchParts(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	resp := api.Get(path("parts/match", url.Values{
		"manufacturer_name": {"texas instruments"},
		"mpn":               {"sn74ls240n"},
	}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `[[39619421,"Texas Instruments","SN74LS240N"]]`, resp.Body.String())
}

func TestGetPartAttributes(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	resp := api.Get(path("partattributes/get", url.Values{"fieldname": {"capacitance"}}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"fieldname":"capacitance"`)

	resp = api.Get(path("partattributes/get", url.Values{"fieldname": {"weight"}}))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get(path("partattributes/get_multi", url.Values{"fieldnames": {`["resistance","capacitance"]`}}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	list := decode(t, resp.Body.Bytes()).([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "resistance", list[0].(map[string]any)["fieldname"])
}

func TestMatchBOM(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	lines := `[{"mpn":"SN74LS240N","reference":"U1"},{"sku":"490-1519-1-ND","reference":"C1"},{"mpn":"NOPE","reference":"X1"}]`
	resp := api.Get(path("bom/match", url.Values{
		"lines":                {lines},
		"optimize.hide_offers": {"true"},
	}))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	results := decode(t, resp.Body.Bytes()).(map[string]any)["results"].([]any)
	require.Len(t, results, 3)

	want := []struct {
		reference string
		status    string
		items     int
	}{
		{"U1", fixtures.StatusFound, 1},
		{"C1", fixtures.StatusFound, 1},
		{"X1", fixtures.StatusNotFound, 0},
	}
	for i, w := range want {
		r := results[i].(map[string]any)
		assert.Equal(t, w.reference, r["reference"])
		assert.Equal(t, w.status, r["status"])
		assert.Len(t, r["items"], w.items)
		for _, item := range r["items"].([]any) {
			assert.NotContains(t, item, "offers")
		}
	}

	resp = api.Get(path("bom/match", url.Values{"lines": {"{}"}}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
