package query

// Boolean joins a clause to the clause before it in the same family.
type Boolean string

const (
	And Boolean = "and"
	Or  Boolean = "or"
)

// Clause is the interface for all predicate records held by a Store.
// The compiler switches on the concrete type.
type Clause interface {
	joiner() Boolean // marker method; also reports the joining boolean
}

// BasicClause compares a column against a bound value: column op value.
type BasicClause struct {
	Boolean  Boolean
	Not      bool
	Column   string
	Operator string
	Value    any
}

func (c BasicClause) joiner() Boolean { return c.Boolean }

// ColumnClause compares two columns. Neither side is bound.
type ColumnClause struct {
	Boolean  Boolean
	First    string
	Operator string
	Second   string
}

func (c ColumnClause) joiner() Boolean { return c.Boolean }

// NestedClause renders the same family of a child builder inside parentheses.
type NestedClause struct {
	Boolean Boolean
	Query   *Builder
}

func (c NestedClause) joiner() Boolean { return c.Boolean }

// ExistsClause wraps a complete SELECT subquery in [not] exists (...).
type ExistsClause struct {
	Boolean Boolean
	Not     bool
	Query   *Builder
}

func (c ExistsClause) joiner() Boolean { return c.Boolean }

// InClause tests membership; one placeholder per value.
type InClause struct {
	Boolean Boolean
	Not     bool
	Column  string
	Values  []any
}

func (c InClause) joiner() Boolean { return c.Boolean }

// LikeClause is a [not] like pattern match.
type LikeClause struct {
	Boolean Boolean
	Not     bool
	Column  string
	Value   any
}

func (c LikeClause) joiner() Boolean { return c.Boolean }

// BetweenClause holds exactly two bounds, rendered in the order given.
type BetweenClause struct {
	Boolean Boolean
	Not     bool
	Column  string
	Low     any
	High    any
}

func (c BetweenClause) joiner() Boolean { return c.Boolean }

// NullClause renders column is [not] null.
type NullClause struct {
	Boolean Boolean
	Not     bool
	Column  string
}

func (c NullClause) joiner() Boolean { return c.Boolean }

// RawClause is emitted verbatim. Its bindings are spliced into the
// statement's binding list at the clause's position.
type RawClause struct {
	Boolean  Boolean
	SQL      string
	Bindings []any
}

func (c RawClause) joiner() Boolean { return c.Boolean }

// Compile-time checks that all clause types implement Clause
var (
	_ Clause = BasicClause{}
	_ Clause = ColumnClause{}
	_ Clause = NestedClause{}
	_ Clause = ExistsClause{}
	_ Clause = InClause{}
	_ Clause = LikeClause{}
	_ Clause = BetweenClause{}
	_ Clause = NullClause{}
	_ Clause = RawClause{}
)
