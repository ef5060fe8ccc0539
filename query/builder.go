package query

import (
	"fmt"
	"strings"
)

// Env carries the collaborators shared by a top-level builder and every
// child builder it spawns (nested groups, exists subqueries, joins,
// eager-load relations).
type Env struct {
	Driver   Driver
	Resolver Resolver
	Loader   RelationLoader
}

// From starts a query on table using the environment's collaborators.
func (e Env) From(table string, alias ...string) *Builder {
	return New(e).From(table, alias...)
}

// Order is one order-by entry. Raw entries carry SQL in Column and an
// empty Direction.
type Order struct {
	Column    string
	Direction string
}

// Aggregate is the function applied to the projection by Count, Sum and
// friends.
type Aggregate struct {
	Function string
	Columns  []string
}

// Builder accumulates the state of one query. It is not safe for
// concurrent use. Fluent methods record the first error they encounter;
// later calls still run but the error is returned by every terminal
// method.
type Builder struct {
	env *Env

	table    string
	name     string
	alias    string
	columns  []string
	distinct bool

	joins     []*JoinClause
	groups    []string
	orders    []Order
	limit     int
	offset    int
	hasOffset bool
	aggregate *Aggregate

	clauses   Store
	relations []*Relation

	pendingName string
	err         error
}

// New creates an empty builder bound to env.
func New(env Env) *Builder {
	return &Builder{env: &env}
}

// child returns an empty builder sharing b's collaborators.
func (b *Builder) child() *Builder {
	return &Builder{env: b.env}
}

// adopt folds the error of a child builder into b.
func (b *Builder) adopt(c *Builder) {
	if c.err != nil {
		b.fail(c.err)
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) failf(format string, args ...any) {
	b.fail(fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...))
}

// Err returns the first error recorded by a fluent call, if any.
func (b *Builder) Err() error {
	return b.err
}

// Env returns the collaborators the builder was created with.
func (b *Builder) Env() Env {
	return *b.env
}

// From sets the source table. The alias defaults to the logical table name
// without any schema qualifier (schema.posts -> posts); the physical name
// comes from the environment's Resolver.
func (b *Builder) From(table string, alias ...string) *Builder {
	if table == "" {
		b.failf("empty table name")
		return b
	}
	as := table[strings.LastIndex(table, ".")+1:]
	if len(alias) > 0 && alias[0] != "" {
		as = alias[0]
	}
	if err := ValidateIdentifier(as); err != nil {
		b.fail(fmt.Errorf("invalid table alias: %w", err))
		return b
	}
	b.name = table
	b.table = resolveTable(b.env.Resolver, table)
	b.alias = as
	return b
}

// Table returns the resolved table name.
func (b *Builder) Table() string { return b.table }

// Alias returns the table alias used in SELECT and DELETE statements.
func (b *Builder) Alias() string { return b.alias }

// Select replaces the projection. With no columns the projection is *.
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Distinct marks the SELECT as distinct.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// GroupBy appends group-by columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

// OrderBy appends an order-by entry. direction defaults to asc and must be
// asc or desc in any case.
func (b *Builder) OrderBy(column string, direction ...string) *Builder {
	dir := "asc"
	if len(direction) > 0 {
		dir = strings.ToLower(direction[0])
	}
	if dir != "asc" && dir != "desc" {
		b.failf(`order direction must be "asc" or "desc", got %q`, direction[0])
		return b
	}
	b.orders = append(b.orders, Order{Column: column, Direction: dir})
	return b
}

// OrderByDesc appends a descending order-by entry.
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderBy(column, "desc")
}

// OrderByRaw appends sql verbatim to the order-by list.
func (b *Builder) OrderByRaw(sql string) *Builder {
	b.orders = append(b.orders, Order{Column: sql})
	return b
}

// Limit caps the row count. Values below 1 become 1.
func (b *Builder) Limit(n int) *Builder {
	b.limit = max(1, n)
	return b
}

// Offset skips rows. Negative values become 0. The offset is only
// emitted together with a limit.
func (b *Builder) Offset(n int) *Builder {
	b.offset = max(0, n)
	b.hasOffset = true
	return b
}

// Named tags the next clause added to any family with name, so it can be
// replaced by a later clause with the same name or removed with Unset*.
// Adding a join clears it. Calls that add no clause (Select, OrderBy and
// the like) leave it pending.
func (b *Builder) Named(name string) *Builder {
	b.pendingName = name
	return b
}

// Clauses returns the builder's clause store.
func (b *Builder) Clauses() *Store {
	return &b.clauses
}

// Joins returns the joins in declaration order.
func (b *Builder) Joins() []*JoinClause {
	return b.joins
}

// Orders returns the order-by entries.
func (b *Builder) Orders() []Order {
	return b.orders
}

// Groups returns the group-by columns.
func (b *Builder) Groups() []string {
	return b.groups
}
