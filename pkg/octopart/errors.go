package octopart

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed call. Every kind is itself an error, so
// errors.Is(err, ErrTypeMismatch) reports whether err is of that kind.
type ErrorKind int

// Error kinds. Validation kinds are raised before any request is sent;
// ErrNotFound and ErrServiceUnavailable come from the API response.
const (
	ErrMissingRequired ErrorKind = iota + 1
	ErrUnknownArgument
	ErrTypeMismatch
	ErrDuplicateArgument
	ErrRangeViolation
	ErrLengthViolation
	ErrPaginationWindow
	ErrNotPairs
	ErrInvalidSortOrder
	ErrInvalidEnum
	ErrNotFound
	ErrServiceUnavailable
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrMissingRequired:
		return "required argument missing from method call"
	case ErrUnknownArgument:
		return "invalid argument for this method"
	case ErrTypeMismatch:
		return "argument type mismatch"
	case ErrDuplicateArgument:
		return "argument passed more than once"
	case ErrRangeViolation:
		return "numeric argument value out of valid range"
	case ErrLengthViolation:
		return "argument outside of allowed length"
	case ErrPaginationWindow:
		return "start+limit of a bom/match line exceeds 100"
	case ErrNotPairs:
		return "argument is not a list of pairs"
	case ErrInvalidSortOrder:
		return `invalid sort order, valid sort orders are "asc" and "desc"`
	case ErrInvalidEnum:
		return "argument value not in allowed set"
	case ErrNotFound:
		return "unexpected HTTP error 404"
	case ErrServiceUnavailable:
		return "unexpected HTTP error 503"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Label returns the snake_case name of the kind, used as a metric label.
func (k ErrorKind) Label() string {
	switch k {
	case ErrMissingRequired:
		return "missing_required"
	case ErrUnknownArgument:
		return "unknown_argument"
	case ErrTypeMismatch:
		return "type_mismatch"
	case ErrDuplicateArgument:
		return "duplicate_argument"
	case ErrRangeViolation:
		return "range_violation"
	case ErrLengthViolation:
		return "length_violation"
	case ErrPaginationWindow:
		return "pagination_window"
	case ErrNotPairs:
		return "not_pairs"
	case ErrInvalidSortOrder:
		return "invalid_sort_order"
	case ErrInvalidEnum:
		return "invalid_enum"
	case ErrNotFound:
		return "not_found"
	case ErrServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// ValidationError reports call arguments rejected before any request was
// made. It carries the complete argument set and the schema (types and
// ranges) it was checked against.
type ValidationError struct {
	Kind   ErrorKind
	Key    string
	Args   Args
	Schema *Schema
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Key != "" {
		fmt.Fprintf(&b, " (argument %q)", e.Key)
	}
	fmt.Fprintf(&b, "\npassed arguments: %v", map[string]any(e.Args))
	if e.Schema != nil {
		fmt.Fprintf(&b, "\nargument types: %v", e.Schema.TypeTable())
		fmt.Fprintf(&b, "\nargument ranges: %v", e.Schema.RangeTable())
	}
	return b.String()
}

// Unwrap exposes the kind to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// RequestError reports an API response recognized as a typed failure
// (404 on multi-item lookups and searches, 503 everywhere).
type RequestError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Args       Args
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Kind.Error())
}

// Unwrap exposes the kind to errors.Is.
func (e *RequestError) Unwrap() error {
	return e.Kind
}

// HTTPError is any other non-2xx API response.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(
		"octopart API error on %s (status %d): %s",
		e.Endpoint,
		e.StatusCode,
		strings.TrimSpace(e.Body),
	)
}

// ErrMalformedResource is returned when a response payload cannot be mapped
// onto a domain record.
var ErrMalformedResource = errors.New("malformed resource")
