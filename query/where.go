package query

// Where adds "column op value" joined with and.
//
//	Where("status", "publish")      // status = %s
//	Where("views", ">", 100)        // views > %d
func (b *Builder) Where(column string, args ...any) *Builder {
	b.addBasic(Wheres, false, false, column, args)
	return b
}

// OrWhere is Where joined with or.
func (b *Builder) OrWhere(column string, args ...any) *Builder {
	b.addBasic(Wheres, true, false, column, args)
	return b
}

// WhereNot negates a basic comparison: not column op value.
func (b *Builder) WhereNot(column string, args ...any) *Builder {
	b.addBasic(Wheres, false, true, column, args)
	return b
}

func (b *Builder) OrWhereNot(column string, args ...any) *Builder {
	b.addBasic(Wheres, true, true, column, args)
	return b
}

// WhereNested groups the where clauses fn adds to a fresh builder in
// parentheses.
func (b *Builder) WhereNested(fn func(q *Builder)) *Builder {
	child := b.child()
	fn(child)
	b.addNested(Wheres, false, child)
	return b
}

func (b *Builder) OrWhereNested(fn func(q *Builder)) *Builder {
	child := b.child()
	fn(child)
	b.addNested(Wheres, true, child)
	return b
}

// WhereColumn compares two columns.
//
//	WhereColumn("first_name", "last_name")
//	WhereColumn("updated_at", ">", "created_at")
func (b *Builder) WhereColumn(first string, args ...string) *Builder {
	b.addColumn(Wheres, false, first, args)
	return b
}

func (b *Builder) OrWhereColumn(first string, args ...string) *Builder {
	b.addColumn(Wheres, true, first, args)
	return b
}

// WhereExists adds exists (subquery) where fn configures the subquery.
func (b *Builder) WhereExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Wheres, false, false, fn)
	return b
}

func (b *Builder) OrWhereExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Wheres, true, false, fn)
	return b
}

func (b *Builder) WhereNotExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Wheres, false, true, fn)
	return b
}

func (b *Builder) OrWhereNotExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Wheres, true, true, fn)
	return b
}

// WhereExistsQuery adds exists (sub) for an already built subquery.
func (b *Builder) WhereExistsQuery(sub *Builder) *Builder {
	b.addExists(Wheres, false, false, sub)
	return b
}

func (b *Builder) OrWhereExistsQuery(sub *Builder) *Builder {
	b.addExists(Wheres, true, false, sub)
	return b
}

func (b *Builder) WhereNotExistsQuery(sub *Builder) *Builder {
	b.addExists(Wheres, false, true, sub)
	return b
}

func (b *Builder) OrWhereNotExistsQuery(sub *Builder) *Builder {
	b.addExists(Wheres, true, true, sub)
	return b
}

// WhereIn adds column in (values...). An empty list never matches.
func (b *Builder) WhereIn(column string, values ...any) *Builder {
	b.addIn(Wheres, false, false, column, values)
	return b
}

func (b *Builder) OrWhereIn(column string, values ...any) *Builder {
	b.addIn(Wheres, true, false, column, values)
	return b
}

func (b *Builder) WhereNotIn(column string, values ...any) *Builder {
	b.addIn(Wheres, false, true, column, values)
	return b
}

func (b *Builder) OrWhereNotIn(column string, values ...any) *Builder {
	b.addIn(Wheres, true, true, column, values)
	return b
}

// WhereLike adds column like value.
func (b *Builder) WhereLike(column string, value any) *Builder {
	b.addLike(Wheres, false, false, column, value)
	return b
}

func (b *Builder) OrWhereLike(column string, value any) *Builder {
	b.addLike(Wheres, true, false, column, value)
	return b
}

func (b *Builder) WhereNotLike(column string, value any) *Builder {
	b.addLike(Wheres, false, true, column, value)
	return b
}

func (b *Builder) OrWhereNotLike(column string, value any) *Builder {
	b.addLike(Wheres, true, true, column, value)
	return b
}

// WhereBetween adds column between low and high. The bounds are bound in
// the order given.
func (b *Builder) WhereBetween(column string, low, high any) *Builder {
	b.addBetween(Wheres, false, false, column, low, high)
	return b
}

func (b *Builder) OrWhereBetween(column string, low, high any) *Builder {
	b.addBetween(Wheres, true, false, column, low, high)
	return b
}

func (b *Builder) WhereNotBetween(column string, low, high any) *Builder {
	b.addBetween(Wheres, false, true, column, low, high)
	return b
}

func (b *Builder) OrWhereNotBetween(column string, low, high any) *Builder {
	b.addBetween(Wheres, true, true, column, low, high)
	return b
}

// WhereBetweenValues is WhereBetween with the bounds in a slice. Any
// length other than 2 records ErrInvalidArgument.
func (b *Builder) WhereBetweenValues(column string, values []any) *Builder {
	b.addBetweenValues(Wheres, false, false, column, values)
	return b
}

func (b *Builder) WhereNotBetweenValues(column string, values []any) *Builder {
	b.addBetweenValues(Wheres, false, true, column, values)
	return b
}

// WhereNull adds column is null.
func (b *Builder) WhereNull(column string) *Builder {
	b.addNull(Wheres, false, false, column)
	return b
}

func (b *Builder) OrWhereNull(column string) *Builder {
	b.addNull(Wheres, true, false, column)
	return b
}

func (b *Builder) WhereNotNull(column string) *Builder {
	b.addNull(Wheres, false, true, column)
	return b
}

func (b *Builder) OrWhereNotNull(column string) *Builder {
	b.addNull(Wheres, true, true, column)
	return b
}

// WhereIsNull is an alias of WhereNull.
func (b *Builder) WhereIsNull(column string) *Builder { return b.WhereNull(column) }

// WhereNotIsNull is an alias of WhereNotNull.
func (b *Builder) WhereNotIsNull(column string) *Builder { return b.WhereNotNull(column) }

// WhereRaw adds sql verbatim. bindings are spliced into the statement's
// bindings where the fragment appears.
func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	b.addRaw(Wheres, false, sql, bindings)
	return b
}

func (b *Builder) OrWhereRaw(sql string, bindings ...any) *Builder {
	b.addRaw(Wheres, true, sql, bindings)
	return b
}

// UnsetWhere removes the where clause stored under name.
func (b *Builder) UnsetWhere(name string) *Builder {
	b.clauses.Unset(Wheres, name)
	return b
}

// UnsetWhereAt removes the index-th positional where clause. Indexes count
// unnamed clauses from 0 in the order they were added.
func (b *Builder) UnsetWhereAt(index int) *Builder {
	b.clauses.UnsetAt(Wheres, index)
	return b
}

// Wheres returns the where clauses in order.
func (b *Builder) Wheres() []Clause {
	return b.clauses.Get(Wheres)
}
