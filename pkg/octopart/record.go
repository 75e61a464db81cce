package octopart

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// updateTimestampLayout is the naive timestamp layout the API uses for
// update_ts. A trailing "Z" is stripped before parsing.
const updateTimestampLayout = "2006-01-02T15:04:05"

// record reads fields out of a decoded JSON object. The first failure is
// kept in err and later reads become no-ops returning zero values.
type record struct {
	what string
	m    map[string]any
	err  error
}

func newRecord(what string, m map[string]any) *record {
	return &record{what: what, m: m}
}

func (r *record) failf(key, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s.%s %s", ErrMalformedResource, r.what, key, fmt.Sprintf(format, args...))
	}
}

// value returns the field, treating JSON null as absent.
func (r *record) value(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *record) requireInt(key string) int64 {
	if r.err != nil {
		return 0
	}
	if _, ok := r.value(key); !ok {
		r.failf(key, "is missing")
		return 0
	}
	return r.int(key)
}

func (r *record) int(key string) int64 {
	v, ok := r.value(key)
	if !ok {
		return 0
	}
	n, ok := jsonInt(v)
	if !ok {
		r.failf(key, "is %T, not an integer", v)
	}
	return n
}

func (r *record) optInt(key string) *int64 {
	if _, ok := r.value(key); !ok {
		return nil
	}
	n := r.int(key)
	return &n
}

// optFloat reads a number. The API sometimes reports averages as
// [value, currency, count]; only the value is kept.
func (r *record) optFloat(key string) *float64 {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	if l, ok := listValue(v); ok {
		if len(l) == 0 || l[0] == nil {
			return nil
		}
		v = l[0]
	}
	f, ok := jsonFloat(v)
	if !ok {
		r.failf(key, "is %T, not a number", v)
		return nil
	}
	return &f
}

func (r *record) requireString(key string) string {
	if r.err != nil {
		return ""
	}
	if _, ok := r.value(key); !ok {
		r.failf(key, "is missing")
		return ""
	}
	return r.string(key)
}

func (r *record) string(key string) string {
	v, ok := r.value(key)
	if !ok {
		return ""
	}
	s, ok := stringValue(v)
	if !ok {
		r.failf(key, "is %T, not a string", v)
	}
	return s
}

func (r *record) bool(key string) bool {
	v, ok := r.value(key)
	if !ok {
		return false
	}
	b, ok := jsonBool(v)
	if !ok {
		r.failf(key, "is %T, not a boolean", v)
	}
	return b
}

func (r *record) list(key string) []any {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	l, ok := listValue(v)
	if !ok {
		r.failf(key, "is %T, not a list", v)
	}
	return l
}

func (r *record) object(key string) (map[string]any, bool) {
	v, ok := r.value(key)
	if !ok {
		return nil, false
	}
	m, ok := mapValue(v)
	if !ok {
		r.failf(key, "is %T, not an object", v)
	}
	return m, ok
}

// intList reads a list of integers, preserving order.
func (r *record) intList(key string) []int64 {
	l := r.list(key)
	out := make([]int64, 0, len(l))
	for i, e := range l {
		n, ok := jsonInt(e)
		if !ok {
			r.failf(key, "[%d] is %T, not an integer", i, e)
			return nil
		}
		out = append(out, n)
	}
	return out
}

// intSet reads a list of integers as a sorted set.
func (r *record) intSet(key string) []int64 {
	out := r.intList(key)
	slices.Sort(out)
	return slices.Compact(out)
}

func (r *record) stringList(key string) []string {
	l := r.list(key)
	out := make([]string, 0, len(l))
	for i, e := range l {
		s, ok := stringValue(e)
		if !ok {
			r.failf(key, "[%d] is %T, not a string", i, e)
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (r *record) stringMap(key string) map[string]string {
	m, ok := r.object(key)
	out := make(map[string]string, len(m))
	if !ok {
		return out
	}
	for k, v := range m {
		if v == nil {
			continue
		}
		s, ok := stringValue(v)
		if !ok {
			r.failf(key, "[%q] is %T, not a string", k, v)
			return out
		}
		out[k] = s
	}
	return out
}

// resources deep-copies a list of open records.
func (r *record) resources(key string) []domain.Resource {
	l := r.list(key)
	out := make([]domain.Resource, 0, len(l))
	for i, e := range l {
		m, ok := mapValue(e)
		if !ok {
			r.failf(key, "[%d] is %T, not an object", i, e)
			return nil
		}
		out = append(out, domain.Resource(copyMap(m)))
	}
	return out
}

func (r *record) timestamp(key string) *time.Time {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	ts, err := parseTimestamp(v)
	if err != nil {
		r.failf(key, "%v", err)
		return nil
	}
	return ts
}

// parseTimestamp accepts an update_ts string or an already parsed time.
func parseTimestamp(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	case *time.Time:
		return t, nil
	case string:
		ts, err := time.Parse(updateTimestampLayout, strings.TrimSuffix(t, "Z"))
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", t, err)
		}
		return &ts, nil
	default:
		return nil, fmt.Errorf("is %T, not a timestamp", v)
	}
}

// jsonInt reads an integer from decoded JSON. Unlike argument validation it
// accepts integral floats, since decoders without UseNumber produce them.
func jsonInt(v any) (int64, bool) {
	if n, ok := intValue(v); ok {
		return n, true
	}
	f, ok := jsonFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// jsonFloat reads a number from decoded JSON, including numeric strings
// such as price values.
func jsonFloat(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func jsonBool(v any) (bool, bool) {
	if b, ok := boolValue(v); ok {
		return b, true
	}
	if n, ok := jsonInt(v); ok && (n == 0 || n == 1) {
		return n == 1, true
	}
	return false, false
}

// copyValue deep-copies decoded JSON so mapped records never share state
// with the payload.
func copyValue(v any) any {
	if m, ok := mapValue(v); ok {
		return copyMap(m)
	}
	if l, ok := listValue(v); ok {
		out := make([]any, len(l))
		for i := range l {
			out[i] = copyValue(l[i])
		}
		return out
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// canonicalJSON renders v with sorted keys so open records compare by
// content.
func canonicalJSON(v any) string {
	b, err := json.Marshal(normalizeNumbers(v))
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// normalizeNumbers turns every number into float64 so 1, 1.0 and
// json.Number("1") render identically.
func normalizeNumbers(v any) any {
	if _, ok := stringValue(v); ok {
		return v
	}
	if f, ok := numberValue(v); ok {
		return f
	}
	if m, ok := mapValue(v); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = normalizeNumbers(e)
		}
		return out
	}
	if l, ok := listValue(v); ok {
		out := make([]any, len(l))
		for i := range l {
			out[i] = normalizeNumbers(l[i])
		}
		return out
	}
	return v
}
