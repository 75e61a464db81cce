package octopart_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/donaldgifford/partsearch/internal/api"
	"github.com/donaldgifford/partsearch/internal/api/fixtures"
	"github.com/donaldgifford/partsearch/pkg/octopart"
	domain "github.com/donaldgifford/partsearch/pkg/types"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMockServer(t *testing.T, opts ...api.Option) (*api.Server, *httptest.Server) {
	t.Helper()

	opts = append([]api.Option{api.WithLogger(discard)}, opts...)
	s := api.New(loadCatalog(t), opts...)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv
}

func newMockClient(t *testing.T, opts ...octopart.Option) *octopart.Client {
	t.Helper()

	_, srv := newMockServer(t)
	opts = append([]octopart.Option{
		octopart.WithBaseURL(srv.URL + "/api/v2"),
		octopart.WithHTTPClient(srv.Client()),
		octopart.WithLogger(discard),
	}, opts...)
	return octopart.New(opts...)
}

func TestClient_Categories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMockClient(t)

	got, err := c.GetCategory(ctx, 4174)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Resistors", got.Value.NodeName)
	assert.True(t, octopart.EqualsJSON(got.Value, got.Raw.(map[string]any)))

	missing, err := c.GetCategory(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	multi, err := c.GetCategories(ctx, []int64{4215, 4174, 4780})
	require.NoError(t, err)
	ids := make([]int64, 0, len(multi.Value))
	for _, cat := range multi.Value {
		ids = append(ids, cat.ID)
	}
	assert.Equal(t, []int64{4215, 4174, 4780}, ids)

	_, err = c.GetCategories(ctx, []int64{4174, 1})
	require.ErrorIs(t, err, octopart.ErrNotFound)
	var reqErr *octopart.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "categories/get_multi", reqErr.Endpoint)

	hits, err := c.SearchCategories(ctx, octopart.Args{"q": "resistor"})
	require.NoError(t, err)
	ids = ids[:0]
	for _, h := range hits.Value {
		ids = append(ids, h.Category.ID)
		assert.Contains(t, h.Highlight, "<em>")
	}
	assert.ElementsMatch(t, []int64{4174, 4175, 4780}, ids)

	results, ok := hits.Raw.(map[string]any)["results"].([]any)
	require.True(t, ok)
	require.Len(t, hits.Value, len(results))
	for i, h := range hits.Value {
		item, ok := results[i].(map[string]any)["item"].(map[string]any)
		require.True(t, ok)
		assert.True(t, octopart.EqualsJSON(h.Category, item), "hit %d", i)
	}
}

func TestClient_Parts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMockClient(t)

	p, err := c.GetPart(ctx, 39619421, octopart.Args{"optimize_hide_unauthorized_offers": true})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, p.Value.Offers, 2)

	missing, err := c.GetPart(ctx, 1, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	parts, err := c.GetParts(ctx, []int64{29035751, 31119928}, octopart.Args{"optimize.hide_specs": true})
	require.NoError(t, err)
	require.Len(t, parts.Value, 2)
	assert.Empty(t, parts.Value[0].Specs)

	_, err = c.GetParts(ctx, []int64{1}, nil)
	assert.ErrorIs(t, err, octopart.ErrNotFound)

	suggestions, err := c.SuggestParts(ctx, "sn74", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"SN74LS240N"}, suggestions.Value)

	matches, err := c.MatchParts(ctx, "Texas Instruments", "SN74LS240N")
	require.NoError(t, err)
	assert.Equal(t, []domain.PartMatch{{UID: 39619421, Manufacturer: "Texas Instruments", MPN: "SN74LS240N"}}, matches.Value)
}

func TestClient_SearchParts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMockClient(t)

	res, err := c.SearchParts(ctx, octopart.Args{"q": "0603"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value.HitCount)
	assert.Len(t, res.Value.Hits, 2)
	assert.Nil(t, res.Value.Drilldown)

	res, err = c.SearchParts(ctx, octopart.Args{
		"q":                   "0603",
		"drilldown_include":   true,
		"drilldown_fieldname": "case_package",
		"limit":               1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value.HitCount)
	assert.Len(t, res.Value.Hits, 1)
	require.Len(t, res.Value.Drilldown, 1)
	assert.Equal(t, "case_package", res.Value.Drilldown[0].Attribute.FieldName)
	assert.Equal(t, []domain.Facet{{Value: "0603", Count: 2}}, res.Value.Drilldown[0].Facets)
}

func TestClient_PartAttributes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMockClient(t)

	a, err := c.GetPartAttribute(ctx, "capacitance")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "farad", a.Value.UnitName())

	missing, err := c.GetPartAttribute(ctx, "weight")
	require.NoError(t, err)
	assert.Nil(t, missing)

	multi, err := c.GetPartAttributes(ctx, []string{"resistance", "logic_family"})
	require.NoError(t, err)
	require.Len(t, multi.Value, 2)
	assert.Equal(t, "resistance", multi.Value[0].FieldName)
	assert.Empty(t, multi.Value[1].Metadata)
}

func TestClient_MatchBOM(t *testing.T) {
	t.Parallel()

	c := newMockClient(t)
	res, err := c.MatchBOM(context.Background(), []octopart.Args{
		{"mpn": "SN74LS240N", "reference": "U1"},
		{"mpn_or_sku": "541-10.0KHCT-ND", "reference": "R1", "limit": 1},
		{"q": "no such part", "reference": "X1"},
	}, octopart.Args{"optimize.hide_offers": true})
	require.NoError(t, err)
	require.Len(t, res.Value, 3)

	assert.Equal(t, "U1", res.Value[0].Reference)
	assert.Equal(t, fixtures.StatusFound, res.Value[0].Status)
	require.Len(t, res.Value[0].Items, 1)
	assert.Empty(t, res.Value[0].Items[0].Offers)

	assert.Equal(t, "CRCW060310K0FKEA", res.Value[1].Items[0].MPN)
	assert.Equal(t, fixtures.StatusNotFound, res.Value[2].Status)
	assert.Empty(t, res.Value[2].Items)

	// start+limit at exactly the window is allowed.
	edge, err := c.MatchBOM(context.Background(), []octopart.Args{
		{"mpn": "SN74LS240N", "reference": "U1", "start": 50, "limit": 50},
	}, nil)
	require.NoError(t, err)
	require.Len(t, edge.Value, 1)
	assert.Equal(t, "U1", edge.Value[0].Reference)
}

func TestClient_Maintenance(t *testing.T) {
	t.Parallel()

	s, srv := newMockServer(t)
	c := octopart.New(octopart.WithBaseURL(srv.URL+"/api/v2"), octopart.WithLogger(discard))
	s.SetUnavailable(true)

	_, err := c.GetCategory(context.Background(), 4174)
	require.ErrorIs(t, err, octopart.ErrServiceUnavailable)
	var reqErr *octopart.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
	assert.Equal(t, int64(4174), reqErr.Args["id"])
}

func TestClient_HTTPErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := octopart.New(octopart.WithBaseURL(srv.URL), octopart.WithLogger(discard))

	_, err := c.GetCategory(context.Background(), 4174)
	var httpErr *octopart.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "boom")
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories/get":
			_, _ = w.Write([]byte(`{"nodename": "no id"}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	t.Cleanup(srv.Close)

	c := octopart.New(octopart.WithBaseURL(srv.URL), octopart.WithLogger(discard))

	_, err := c.GetCategory(context.Background(), 4174)
	assert.ErrorIs(t, err, octopart.ErrMalformedResource)

	_, err = c.GetPart(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestClient_DefaultsAndFormatting(t *testing.T) {
	t.Parallel()

	s := api.New(loadCatalog(t), api.WithLogger(discard), api.WithAPIKey("secret"))
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		assert.NotEmpty(t, r.Header.Get(octopart.RequestIDHeader))
		s.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := octopart.New(
		octopart.WithBaseURL(srv.URL+"/api/v2/"),
		octopart.WithAPIKey("secret"),
		octopart.WithCallback("handle"),
		octopart.WithPrettyPrint(true),
		octopart.WithLogger(discard),
	)

	got, err := c.GetCategory(context.Background(), 4174)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Resistors", got.Value.NodeName)
	assert.Equal(t, "apikey=secret&callback=handle&id=4174&pretty_print=1", lastQuery.Load())

	// A per-call apikey wins over the configured one.
	_, err = c.SearchCategories(context.Background(), octopart.Args{"apikey": "wrong"})
	var httpErr *octopart.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestClient_PerCallCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []octopart.Option
		callback string
	}{
		{name: "no configured callback", callback: "cb"},
		{name: "overrides configured callback", opts: []octopart.Option{octopart.WithCallback("cb")}, callback: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newMockClient(t, tt.opts...)
			hits, err := c.SearchCategories(context.Background(), octopart.Args{"q": "resistor", "callback": tt.callback})
			require.NoError(t, err)
			assert.Len(t, hits.Value, 3)
		})
	}
}

type headerRecorder struct {
	next    octopart.Doer
	headers atomic.Value
}

func (d *headerRecorder) Do(req *http.Request) (*http.Response, error) {
	d.headers.Store(req.Header.Clone())
	return d.next.Do(req)
}

// Not parallel: swaps the global propagator.
func TestClient_TracePropagationWithCustomDoer(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	_, srv := newMockServer(t)
	doer := &headerRecorder{next: srv.Client()}
	c := octopart.New(
		octopart.WithBaseURL(srv.URL+"/api/v2"),
		octopart.WithHTTPClient(doer),
		octopart.WithTracerProvider(sdktrace.NewTracerProvider()),
		octopart.WithLogger(discard),
	)

	_, err := c.GetCategory(context.Background(), 4174)
	require.NoError(t, err)
	headers, ok := doer.headers.Load().(http.Header)
	require.True(t, ok)
	assert.NotEmpty(t, headers.Get("traceparent"))
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	limiter := octopart.NewRateLimiter(100, 10, 2)
	c := newMockClient(t, octopart.WithRateLimiter(limiter))
	ctx := context.Background()

	for range 2 {
		_, err := c.GetCategory(ctx, 4174)
		require.NoError(t, err)
	}
	_, err := c.GetCategory(ctx, 4174)
	require.ErrorIs(t, err, octopart.ErrDailyLimitReached)
	assert.Equal(t, int64(0), limiter.Remaining())
}

func TestClient_Telemetry(t *testing.T) {
	t.Parallel()

	_, srv := newMockServer(t)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	c := octopart.New(
		octopart.WithBaseURL(srv.URL+"/api/v2"),
		octopart.WithTracerProvider(tp),
		octopart.WithMeterProvider(mp),
		octopart.WithLogger(discard),
	)
	ctx := context.Background()

	_, err := c.GetCategory(ctx, 4174)
	require.NoError(t, err)
	_, err = c.GetCategories(ctx, []int64{1})
	require.Error(t, err)
	_, err = c.SearchCategories(ctx, octopart.Args{"limit": 500})
	require.Error(t, err)

	byName := map[string][]sdktrace.ReadOnlySpan{}
	for _, s := range spans.Ended() {
		byName[s.Name()] = append(byName[s.Name()], s)
	}

	require.Len(t, byName["octopart categories/get"], 1)
	get := byName["octopart categories/get"][0]
	assert.Equal(t, codes.Unset, get.Status().Code)
	assert.Contains(t, get.Attributes(), attribute.Int("http.response.status_code", 200))

	require.Len(t, byName["octopart categories/get_multi"], 1)
	assert.Equal(t, codes.Error, byName["octopart categories/get_multi"][0].Status().Code)

	require.Len(t, byName["octopart categories/search"], 1)
	assert.Equal(t, codes.Error, byName["octopart categories/search"][0].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	var calls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "octopart.client.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				calls += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), calls)
}
