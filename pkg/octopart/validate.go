package octopart

import (
	"errors"
	"maps"
	"slices"
)

// Validate checks args against the schema and returns a *ValidationError
// describing the first violation found.
func (s *Schema) Validate(args map[string]any) error {
	list := make([]Arg, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		list = append(list, Arg{Key: k, Value: args[k]})
	}
	_, err := s.validateList(list)
	return err
}

// validateList validates arguments in the order they were supplied and
// returns them as a mapping. Violations are checked in this order:
// duplicate keys, unknown keys, missing required keys, per-field type and
// range, then the schema's checks.
func (s *Schema) validateList(list []Arg) (Args, error) {
	args := argsOf(list)

	if len(args) != len(list) {
		seen := make(map[string]struct{}, len(list))
		for _, a := range list {
			if _, dup := seen[a.Key]; dup {
				return nil, s.fail(ErrDuplicateArgument, a.Key, args)
			}
			seen[a.Key] = struct{}{}
		}
	}

	keys := slices.Sorted(maps.Keys(args))
	for _, k := range keys {
		if _, ok := s.Fields[k]; !ok {
			return nil, s.fail(ErrUnknownArgument, k, args)
		}
	}

	for _, k := range s.Required {
		if _, ok := args[k]; !ok {
			return nil, s.fail(ErrMissingRequired, k, args)
		}
	}

	for _, k := range keys {
		if err := s.Fields[k].check(args[k]); err != nil {
			return nil, s.wrap(err, k, args)
		}
	}

	for _, check := range s.Checks {
		if err := check(args); err != nil {
			return nil, s.wrap(err, "", args)
		}
	}

	return args, nil
}

func (s *Schema) fail(kind ErrorKind, key string, args Args) *ValidationError {
	return &ValidationError{Kind: kind, Key: key, Args: args, Schema: s}
}

// wrap turns a field or check failure into a *ValidationError. Errors raised
// by a nested schema keep that schema's arguments and tables.
func (s *Schema) wrap(err error, key string, args Args) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		if verr.Schema == nil {
			verr.Args = args
			verr.Schema = s
		}
		if verr.Key == "" {
			verr.Key = key
		}
		return verr
	}
	var kind ErrorKind
	if errors.As(err, &kind) {
		return s.fail(kind, key, args)
	}
	return err
}

// violation builds a check failure for key; the schema fills in the
// arguments and tables.
func violation(kind ErrorKind, key string) error {
	return &ValidationError{Kind: kind, Key: key}
}
