package octopart

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Bounds is an inclusive [Min, Max] range. For numbers it constrains the
// value; for strings and lists it constrains the length.
type Bounds struct {
	Min int64
	Max int64
}

// Between returns inclusive bounds [lo, hi].
func Between(lo, hi int64) *Bounds {
	return &Bounds{Min: lo, Max: hi}
}

// AtLeast returns bounds with no upper limit.
func AtLeast(lo int64) *Bounds {
	return &Bounds{Min: lo, Max: math.MaxInt64}
}

func (b *Bounds) contains(n int64) bool {
	return n >= b.Min && n <= b.Max
}

func (b *Bounds) String() string {
	if b.Max == math.MaxInt64 {
		return fmt.Sprintf("[%d, inf)", b.Min)
	}
	return fmt.Sprintf("[%d, %d]", b.Min, b.Max)
}

// Field describes the accepted type, and optionally range, of one argument.
// check returns nil, an ErrorKind, or a *ValidationError raised by a nested
// schema.
type Field interface {
	check(v any) error
	describe() string
	bounds() *Bounds
}

// Integer accepts any Go integer or an integral json.Number.
type Integer struct {
	Range *Bounds
}

func (f Integer) check(v any) error {
	n, ok := intValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	if f.Range != nil && !f.Range.contains(n) {
		return ErrRangeViolation
	}
	return nil
}

func (Integer) describe() string  { return "integer" }
func (f Integer) bounds() *Bounds { return f.Range }

// Number accepts integers and floats.
type Number struct {
	Range *Bounds
}

func (f Number) check(v any) error {
	n, ok := numberValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	if f.Range != nil && (n < float64(f.Range.Min) || n > float64(f.Range.Max)) {
		return ErrRangeViolation
	}
	return nil
}

func (Number) describe() string  { return "number" }
func (f Number) bounds() *Bounds { return f.Range }

// String accepts any string-like value; Length bounds its character count.
type String struct {
	Length *Bounds
}

func (f String) check(v any) error {
	s, ok := stringValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	if f.Length != nil && !f.Length.contains(int64(utf8.RuneCountInString(s))) {
		return ErrLengthViolation
	}
	return nil
}

func (String) describe() string  { return "string" }
func (f String) bounds() *Bounds { return f.Length }

// Boolean accepts bool values.
type Boolean struct{}

func (Boolean) check(v any) error {
	if _, ok := boolValue(v); !ok {
		return ErrTypeMismatch
	}
	return nil
}

func (Boolean) describe() string { return "boolean" }
func (Boolean) bounds() *Bounds  { return nil }

// Enum accepts one of a fixed set of strings. Values outside the set fail
// with Kind, or ErrInvalidEnum when Kind is zero.
type Enum struct {
	Allowed []string
	Kind    ErrorKind
}

func (f Enum) check(v any) error {
	s, ok := stringValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	if !slices.Contains(f.Allowed, s) {
		if f.Kind != 0 {
			return f.Kind
		}
		return ErrInvalidEnum
	}
	return nil
}

func (f Enum) describe() string {
	return "one of " + strings.Join(f.Allowed, "|")
}

func (Enum) bounds() *Bounds { return nil }

// List accepts a slice. Elem, when set, is checked against every element;
// Length bounds the number of elements.
type List struct {
	Elem   Field
	Length *Bounds
}

func (f List) check(v any) error {
	elems, ok := listValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	if f.Length != nil && !f.Length.contains(int64(len(elems))) {
		return ErrLengthViolation
	}
	if f.Elem == nil {
		return nil
	}
	for _, e := range elems {
		if err := f.Elem.check(e); err != nil {
			return err
		}
	}
	return nil
}

func (f List) describe() string {
	if f.Elem == nil {
		return "list"
	}
	return "list of " + f.Elem.describe()
}

func (f List) bounds() *Bounds { return f.Length }

// Pair accepts a two-element list whose elements match First and Second.
type Pair struct {
	First  Field
	Second Field
}

func (f Pair) check(v any) error {
	elems, ok := listValue(v)
	if !ok || len(elems) != 2 {
		return ErrNotPairs
	}
	if err := f.First.check(elems[0]); err != nil {
		return err
	}
	return f.Second.check(elems[1])
}

func (f Pair) describe() string {
	return fmt.Sprintf("(%s, %s)", f.First.describe(), f.Second.describe())
}

func (Pair) bounds() *Bounds { return nil }

// Nullable accepts nil or a value matching Field.
type Nullable struct {
	Field Field
}

func (f Nullable) check(v any) error {
	if v == nil {
		return nil
	}
	return f.Field.check(v)
}

func (f Nullable) describe() string { return f.Field.describe() + " or null" }
func (f Nullable) bounds() *Bounds  { return f.Field.bounds() }

// Object accepts a mapping validated as a whole against its own schema.
type Object struct {
	Schema *Schema
}

func (f Object) check(v any) error {
	m, ok := mapValue(v)
	if !ok {
		return ErrTypeMismatch
	}
	return f.Schema.Validate(m)
}

func (f Object) describe() string { return "object(" + f.Schema.Name + ")" }
func (Object) bounds() *Bounds    { return nil }

// Check is an endpoint rule evaluated after every field has been validated.
// It returns nil, an ErrorKind, or a *ValidationError naming the key.
type Check func(args Args) error

// Schema is the closed argument description of one endpoint.
type Schema struct {
	Name   string
	Fields map[string]Field
	// Required keys are enforced only when the list is non-empty.
	Required []string
	Checks   []Check
}

// TypeTable returns the declared type of every argument.
func (s *Schema) TypeTable() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for k, f := range s.Fields {
		out[k] = f.describe()
	}
	return out
}

// RangeTable returns the declared bounds of every range-constrained argument.
func (s *Schema) RangeTable() map[string]string {
	out := make(map[string]string)
	for k, f := range s.Fields {
		if b := f.bounds(); b != nil {
			out[k] = b.String()
		}
	}
	return out
}
