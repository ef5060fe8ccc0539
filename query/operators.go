package query

import (
	"fmt"
	"strings"
)

// operators is the set of comparison operators accepted by the basic and
// column clause forms. Lookups are case-insensitive.
var operators = map[string]struct{}{
	"=": {}, "<": {}, ">": {}, "<=": {}, ">=": {}, "<>": {}, "!=": {}, "<=>": {},
	"like": {}, "like binary": {}, "not like": {}, "ilike": {},
	"&": {}, "|": {}, "^": {}, "<<": {}, ">>": {}, "&~": {},
	"rlike": {}, "not rlike": {}, "regexp": {}, "not regexp": {},
	"~": {}, "~*": {}, "!~": {}, "!~*": {},
	"similar to": {}, "not similar to": {}, "not ilike": {}, "~~*": {}, "!~~*": {},
}

// nullComparable lists the operators that may be paired with a nil value.
var nullComparable = map[string]struct{}{"=": {}, "<>": {}, "!=": {}}

// IsOperator reports whether op is a known comparison operator.
func IsOperator(op string) bool {
	_, ok := operators[strings.ToLower(op)]
	return ok
}

// normalizeComparison turns the variadic tail of Where-style calls into an
// operator and value.
//
//	(value)           -> "=", value
//	(operator, value) -> operator, value
//
// An operator outside the known set is taken to be the value and the
// operator becomes "=". A nil value is only allowed with "=", "<>" or "!=".
func normalizeComparison(args []any) (string, any, error) {
	switch len(args) {
	case 1:
		return "=", args[0], nil
	case 2:
		op, isString := args[0].(string)
		value := args[1]
		if isString {
			lower := strings.ToLower(op)
			if _, known := operators[lower]; known {
				if _, ok := nullComparable[lower]; value == nil && !ok {
					return "", nil, fmt.Errorf("%w: illegal operator and value combination: %q with nil", ErrInvalidArgument, op)
				}
				return lower, value, nil
			}
		}
		return "=", args[0], nil
	case 0:
		return "", nil, fmt.Errorf("%w: missing comparison value", ErrInvalidArgument)
	default:
		return "", nil, fmt.Errorf("%w: expected value or operator and value, got %d arguments", ErrInvalidArgument, len(args))
	}
}

// normalizeColumnComparison is the column-to-column form of
// normalizeComparison. Both sides are identifiers, so nil never occurs.
func normalizeColumnComparison(args []string) (string, string, error) {
	switch len(args) {
	case 1:
		return "=", args[0], nil
	case 2:
		lower := strings.ToLower(args[0])
		if _, known := operators[lower]; known {
			return lower, args[1], nil
		}
		return "=", args[0], nil
	case 0:
		return "", "", fmt.Errorf("%w: missing second column", ErrInvalidArgument)
	default:
		return "", "", fmt.Errorf("%w: expected column or operator and column, got %d arguments", ErrInvalidArgument, len(args))
	}
}
