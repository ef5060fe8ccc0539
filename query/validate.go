package query

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateIdentifier checks that name is a plain SQL identifier usable as a
// table alias.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: identifier cannot be empty", ErrInvalidArgument)
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("%w: invalid identifier %q: must start with letter or underscore and contain only alphanumeric characters and underscores", ErrInvalidArgument, name)
	}
	return nil
}

var aggregateFunctions = map[string]struct{}{
	"count": {}, "min": {}, "max": {}, "sum": {}, "avg": {},
}

// ValidateBuilder checks the invariants the compiler relies on: no
// recorded fluent error, a source table, and a known aggregate function.
func ValidateBuilder(q *Builder) error {
	if q == nil {
		return fmt.Errorf("%w: nil builder", ErrInvalidArgument)
	}
	if q.err != nil {
		return q.err
	}
	if q.table == "" {
		return ErrNoTable
	}
	if q.aggregate != nil {
		if _, ok := aggregateFunctions[strings.ToLower(q.aggregate.Function)]; !ok {
			return fmt.Errorf("%w: unknown aggregate function %q", ErrInvalidArgument, q.aggregate.Function)
		}
	}
	return nil
}
