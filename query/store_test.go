package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func columns(cs []Clause) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.(NullClause).Column
	}
	return out
}

func TestStoreInsertionOrder(t *testing.T) {
	var s Store

	assert.Empty(t, s.Get(Wheres))
	assert.Equal(t, 0, s.Len(Wheres))

	assert.Equal(t, 0, s.Set(Wheres, NullClause{Column: "a"}, ""))
	assert.Equal(t, -1, s.Set(Wheres, NullClause{Column: "b"}, "named"))
	assert.Equal(t, 1, s.Set(Wheres, NullClause{Column: "c"}, ""))

	assert.Equal(t, []string{"a", "b", "c"}, columns(s.Get(Wheres)))
	assert.Empty(t, s.Get(Havings))
}

func TestStoreUpsertKeepsPosition(t *testing.T) {
	var s Store
	s.Set(Wheres, NullClause{Column: "a"}, "first")
	s.Set(Wheres, NullClause{Column: "b"}, "")
	s.Set(Wheres, NullClause{Column: "a2"}, "first")

	assert.Equal(t, []string{"a2", "b"}, columns(s.Get(Wheres)))
}

func TestStoreUnset(t *testing.T) {
	var s Store
	s.Set(Ons, NullClause{Column: "p0"}, "")
	s.Set(Ons, NullClause{Column: "n"}, "name")
	s.Set(Ons, NullClause{Column: "p1"}, "")
	s.Set(Ons, NullClause{Column: "p2"}, "")

	s.UnsetAt(Ons, 1)
	assert.Equal(t, []string{"p0", "n", "p2"}, columns(s.Get(Ons)))

	// Indexes are stable after removal.
	s.UnsetAt(Ons, 2)
	assert.Equal(t, []string{"p0", "n"}, columns(s.Get(Ons)))

	s.Unset(Ons, "name")
	assert.Equal(t, []string{"p0"}, columns(s.Get(Ons)))

	// Missing keys and families are ignored.
	s.Unset(Ons, "missing")
	s.UnsetAt(Ons, 42)
	s.UnsetAt(Ons, -1)
	s.Unset(Havings, "x")
	assert.Equal(t, []string{"p0"}, columns(s.Get(Ons)))

	// New positional entries never reuse a removed index.
	assert.Equal(t, 3, s.Set(Ons, NullClause{Column: "p3"}, ""))
}

func TestStoreFamiliesAreIndependent(t *testing.T) {
	var s Store
	s.Set(Wheres, NullClause{Column: "w"}, "same")
	s.Set(Havings, NullClause{Column: "h"}, "same")

	assert.Equal(t, []string{"w"}, columns(s.Get(Wheres)))
	assert.Equal(t, []string{"h"}, columns(s.Get(Havings)))
}
