// Package octopart is a client for the Octopart v2 parts-search REST API.
// Arguments are validated against a per-endpoint schema before any request
// is made, and responses are mapped onto the records in pkg/types.
package octopart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/partsearch/internal/metrics"
	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// DefaultBaseURL is the Octopart v2 API root.
const DefaultBaseURL = "http://octopart.com/api/v2/"

// RequestIDHeader carries the per-call request id.
const RequestIDHeader = "X-Request-ID"

const instrumentationName = "github.com/donaldgifford/partsearch/pkg/octopart"

// API is the set of Octopart operations. Single-item lookups return a nil
// response when the item does not exist.
type API interface {
	GetCategory(ctx context.Context, id int64) (*Response[domain.Category], error)
	GetCategories(ctx context.Context, ids []int64) (*Response[[]domain.Category], error)
	SearchCategories(ctx context.Context, args Args) (*Response[[]domain.CategoryHit], error)

	GetPart(ctx context.Context, uid int64, args Args) (*Response[domain.Part], error)
	GetParts(ctx context.Context, uids []int64, args Args) (*Response[[]domain.Part], error)
	SearchParts(ctx context.Context, args Args) (*Response[domain.PartSearchResult], error)
	SuggestParts(ctx context.Context, q string, args Args) (*Response[[]string], error)
	MatchParts(ctx context.Context, manufacturer, mpn string) (*Response[[]domain.PartMatch], error)

	GetPartAttribute(ctx context.Context, fieldname string) (*Response[domain.PartAttribute], error)
	GetPartAttributes(ctx context.Context, fieldnames []string) (*Response[[]domain.PartAttribute], error)

	MatchBOM(ctx context.Context, lines []Args, args Args) (*Response[[]domain.BOMResult], error)
}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response pairs a mapped value with the decoded JSON it was built from.
type Response[T any] struct {
	Value T
	Raw   any
}

// Client implements API over HTTP.
type Client struct {
	baseURL     string
	apiKey      string
	callback    string
	prettyPrint bool
	client      Doer
	injectTrace bool
	rateLimiter *RateLimiter
	logger      *slog.Logger

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	calls          metric.Int64Counter
	duration       metric.Float64Histogram
}

var _ API = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/") + "/"
	}
}

// WithAPIKey sets the apikey sent with every call.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithCallback requests JSONP responses wrapped in the named function.
func WithCallback(name string) Option {
	return func(c *Client) {
		c.callback = name
	}
}

// WithPrettyPrint asks the API to indent its responses.
func WithPrettyPrint(enabled bool) Option {
	return func(c *Client) {
		c.prettyPrint = enabled
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.client = d
	}
}

// WithRateLimiter makes every call wait on r before it is sent.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTracerProvider sets the provider of per-call spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider of the call counter and duration
// histogram. The global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		c.meterProvider = mp
	}
}

// New creates an Octopart API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// A caller-supplied Doer is not known to propagate trace context.
	c.injectTrace = c.client != nil
	if c.client == nil {
		c.client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(c.tracerProvider),
				otelhttp.WithMeterProvider(c.meterProvider),
			),
		}
	}

	c.tracer = c.tracerProvider.Tracer(instrumentationName)
	meter := c.meterProvider.Meter(instrumentationName)
	var err error
	if c.calls, err = meter.Int64Counter("octopart.client.calls",
		metric.WithDescription("Octopart API calls by endpoint and outcome.")); err != nil {
		otel.Handle(err)
	}
	if c.duration, err = meter.Float64Histogram("octopart.client.duration",
		metric.WithDescription("Octopart API call duration."), metric.WithUnit("s")); err != nil {
		otel.Handle(err)
	}
	return c
}

// call validates the arguments, performs the GET and decodes the body. A nil
// result with a nil error means the response was empty, or a 404 on an
// endpoint that treats it as absent.
func (c *Client) call(ctx context.Context, ep endpoint, positional []Arg, opts Args) (_ any, err error) {
	ctx, span := c.tracer.Start(ctx, "octopart "+ep.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("octopart.endpoint", ep.path)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	args, err := ep.schema.validateList(collect(positional, opts))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationFailuresTotal.WithLabelValues(ep.path, verr.Kind.Label()).Inc()
		}
		return nil, err
	}
	c.applyDefaults(args)
	callback, _ := stringValue(args["callback"])

	query, err := EncodeQuery(args)
	if err != nil {
		return nil, fmt.Errorf("encoding %s query: %w", ep.path, err)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.DailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.DailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	u := c.baseURL + ep.path
	if query != "" {
		u += "?" + query
	}
	requestID := uuid.NewString()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if c.injectTrace {
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	}
	span.SetAttributes(attribute.String("octopart.request_id", requestID))

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.APICallsTotal.WithLabelValues(ep.path, "error").Inc()
		c.record(ctx, ep.path, "error", time.Since(start))
		return nil, fmt.Errorf("executing %s request: %w", ep.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	elapsed := time.Since(start)
	metrics.APICallsTotal.WithLabelValues(ep.path, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.APICallDuration.WithLabelValues(ep.path).Observe(elapsed.Seconds())
	c.record(ctx, ep.path, strconv.Itoa(resp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("octopart api call",
		"endpoint", ep.path,
		"status", resp.StatusCode,
		"duration", elapsed,
		"request_id", requestID,
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		if ep.absentOnNotFound {
			return nil, nil
		}
		return nil, &RequestError{Kind: ErrNotFound, Endpoint: ep.path, StatusCode: resp.StatusCode, Args: args}
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &RequestError{Kind: ErrServiceUnavailable, Endpoint: ep.path, StatusCode: resp.StatusCode, Args: args}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &HTTPError{Endpoint: ep.path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	raw, err := decodeBody(body, callback)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", ep.path, err)
	}
	return raw, nil
}

func (c *Client) record(ctx context.Context, path, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", path),
		attribute.String("status", status),
	)
	if c.calls != nil {
		c.calls.Add(ctx, 1, attrs)
	}
	if c.duration != nil {
		c.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// applyDefaults adds the client-wide arguments without overwriting values
// supplied for this call.
func (c *Client) applyDefaults(args Args) {
	if _, ok := args["apikey"]; !ok && c.apiKey != "" {
		args["apikey"] = c.apiKey
	}
	if _, ok := args["callback"]; !ok && c.callback != "" {
		args["callback"] = c.callback
	}
	if _, ok := args["pretty_print"]; !ok && c.prettyPrint {
		args["pretty_print"] = true
	}
}

// decodeBody decodes a JSON body, unwrapping the JSONP callback the request
// asked for. Numbers are kept as json.Number.
func decodeBody(body []byte, callback string) (any, error) {
	body = bytes.TrimSpace(body)
	if callback != "" {
		body = stripJSONP(body, callback)
	}
	if len(body) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func stripJSONP(body []byte, callback string) []byte {
	prefix := []byte(callback + "(")
	if !bytes.HasPrefix(body, prefix) {
		return body
	}
	inner := bytes.TrimPrefix(body, prefix)
	inner = bytes.TrimSuffix(inner, []byte(";"))
	inner = bytes.TrimSuffix(bytes.TrimSpace(inner), []byte(")"))
	return bytes.TrimSpace(inner)
}

// mapObject maps a single decoded object. A nil raw value maps to a nil
// response.
func mapObject[T any](path string, raw any, build func(map[string]any) (T, error)) (*Response[T], error) {
	if raw == nil {
		return nil, nil
	}
	v, err := resolve(path+" response", raw, build)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}
	return &Response[T]{Value: v, Raw: raw}, nil
}

// mapArray maps a decoded list of objects, or the list stored under key
// when key is non-empty.
func mapArray[T any](path string, raw any, key string, build func(map[string]any) (T, error)) (*Response[[]T], error) {
	items, err := listOf(path, raw, key)
	if err != nil {
		return nil, err
	}
	values, err := mapList(path, items, build)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}
	return &Response[[]T]{Value: values, Raw: raw}, nil
}

func listOf(path string, raw any, key string) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	v := raw
	if key != "" {
		m, ok := mapValue(raw)
		if !ok {
			return nil, fmt.Errorf("parsing %s response: %w: got %T, not an object", path, ErrMalformedResource, raw)
		}
		v = m[key]
		if v == nil {
			return nil, nil
		}
	}
	l, ok := listValue(v)
	if !ok {
		return nil, fmt.Errorf("parsing %s response: %w: got %T, not a list", path, ErrMalformedResource, v)
	}
	return l, nil
}
