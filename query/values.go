package query

import (
	"maps"
	"slices"
)

// Value is one column assignment for Insert and Update.
type Value struct {
	Column string
	Val    any
}

// Values is an ordered list of column assignments. Its order is the column
// order of the generated statement.
type Values []Value

// ValuesFromMap converts m to Values sorted by column name.
func ValuesFromMap(m map[string]any) Values {
	keys := slices.Sorted(maps.Keys(m))
	out := make(Values, 0, len(keys))
	for _, k := range keys {
		out = append(out, Value{Column: k, Val: m[k]})
	}
	return out
}

// Columns returns the column names in order.
func (v Values) Columns() []string {
	cols := make([]string, len(v))
	for i, val := range v {
		cols[i] = val.Column
	}
	return cols
}
