package octopart

import "fmt"

// Source is the input of a mapper: either a raw decoded JSON object or a
// value that has already been converted. Callers re-wrapping partially
// processed payloads can place Typed values where raw objects would go.
type Source[T any] struct {
	raw   map[string]any
	value T
	typed bool
}

// Raw wraps a decoded JSON object.
func Raw[T any](m map[string]any) Source[T] {
	return Source[T]{raw: m}
}

// Typed wraps an already converted value.
func Typed[T any](v T) Source[T] {
	return Source[T]{value: v, typed: true}
}

// IsTyped reports whether the source holds a converted value.
func (s Source[T]) IsTyped() bool {
	return s.typed
}

// Resolve returns the typed value, converting raw input with build.
func (s Source[T]) Resolve(build func(map[string]any) (T, error)) (T, error) {
	if s.typed {
		return s.value, nil
	}
	return build(s.raw)
}

// sourceOf normalizes a nested value found in a payload into a Source. It
// accepts T, *T, or any string-keyed mapping.
func sourceOf[T any](v any) (Source[T], bool) {
	switch t := v.(type) {
	case T:
		return Typed(t), true
	case *T:
		if t != nil {
			return Typed(*t), true
		}
		return Source[T]{}, false
	}
	if m, ok := mapValue(v); ok {
		return Raw[T](m), true
	}
	return Source[T]{}, false
}

// resolve converts a nested payload value into T.
func resolve[T any](what string, v any, build func(map[string]any) (T, error)) (T, error) {
	src, ok := sourceOf[T](v)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s is %T, not an object", ErrMalformedResource, what, v)
	}
	return src.Resolve(build)
}
