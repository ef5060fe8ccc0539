package query

// The having family mirrors where.go; every clause form is available.

func (b *Builder) Having(column string, args ...any) *Builder {
	b.addBasic(Havings, false, false, column, args)
	return b
}

func (b *Builder) OrHaving(column string, args ...any) *Builder {
	b.addBasic(Havings, true, false, column, args)
	return b
}

func (b *Builder) HavingNot(column string, args ...any) *Builder {
	b.addBasic(Havings, false, true, column, args)
	return b
}

func (b *Builder) OrHavingNot(column string, args ...any) *Builder {
	b.addBasic(Havings, true, true, column, args)
	return b
}

// HavingNested groups the having clauses fn adds to a fresh builder.
func (b *Builder) HavingNested(fn func(q *Builder)) *Builder {
	child := b.child()
	fn(child)
	b.addNested(Havings, false, child)
	return b
}

func (b *Builder) OrHavingNested(fn func(q *Builder)) *Builder {
	child := b.child()
	fn(child)
	b.addNested(Havings, true, child)
	return b
}

func (b *Builder) HavingColumn(first string, args ...string) *Builder {
	b.addColumn(Havings, false, first, args)
	return b
}

func (b *Builder) OrHavingColumn(first string, args ...string) *Builder {
	b.addColumn(Havings, true, first, args)
	return b
}

func (b *Builder) HavingExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Havings, false, false, fn)
	return b
}

func (b *Builder) OrHavingExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Havings, true, false, fn)
	return b
}

func (b *Builder) HavingNotExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Havings, false, true, fn)
	return b
}

func (b *Builder) OrHavingNotExists(fn func(q *Builder)) *Builder {
	b.existsFrom(Havings, true, true, fn)
	return b
}

func (b *Builder) HavingExistsQuery(sub *Builder) *Builder {
	b.addExists(Havings, false, false, sub)
	return b
}

func (b *Builder) OrHavingExistsQuery(sub *Builder) *Builder {
	b.addExists(Havings, true, false, sub)
	return b
}

func (b *Builder) HavingNotExistsQuery(sub *Builder) *Builder {
	b.addExists(Havings, false, true, sub)
	return b
}

func (b *Builder) OrHavingNotExistsQuery(sub *Builder) *Builder {
	b.addExists(Havings, true, true, sub)
	return b
}

func (b *Builder) HavingIn(column string, values ...any) *Builder {
	b.addIn(Havings, false, false, column, values)
	return b
}

func (b *Builder) OrHavingIn(column string, values ...any) *Builder {
	b.addIn(Havings, true, false, column, values)
	return b
}

func (b *Builder) HavingNotIn(column string, values ...any) *Builder {
	b.addIn(Havings, false, true, column, values)
	return b
}

func (b *Builder) OrHavingNotIn(column string, values ...any) *Builder {
	b.addIn(Havings, true, true, column, values)
	return b
}

func (b *Builder) HavingLike(column string, value any) *Builder {
	b.addLike(Havings, false, false, column, value)
	return b
}

func (b *Builder) OrHavingLike(column string, value any) *Builder {
	b.addLike(Havings, true, false, column, value)
	return b
}

func (b *Builder) HavingNotLike(column string, value any) *Builder {
	b.addLike(Havings, false, true, column, value)
	return b
}

func (b *Builder) OrHavingNotLike(column string, value any) *Builder {
	b.addLike(Havings, true, true, column, value)
	return b
}

func (b *Builder) HavingBetween(column string, low, high any) *Builder {
	b.addBetween(Havings, false, false, column, low, high)
	return b
}

func (b *Builder) OrHavingBetween(column string, low, high any) *Builder {
	b.addBetween(Havings, true, false, column, low, high)
	return b
}

func (b *Builder) HavingNotBetween(column string, low, high any) *Builder {
	b.addBetween(Havings, false, true, column, low, high)
	return b
}

func (b *Builder) OrHavingNotBetween(column string, low, high any) *Builder {
	b.addBetween(Havings, true, true, column, low, high)
	return b
}

func (b *Builder) HavingBetweenValues(column string, values []any) *Builder {
	b.addBetweenValues(Havings, false, false, column, values)
	return b
}

func (b *Builder) HavingNotBetweenValues(column string, values []any) *Builder {
	b.addBetweenValues(Havings, false, true, column, values)
	return b
}

func (b *Builder) HavingNull(column string) *Builder {
	b.addNull(Havings, false, false, column)
	return b
}

func (b *Builder) OrHavingNull(column string) *Builder {
	b.addNull(Havings, true, false, column)
	return b
}

func (b *Builder) HavingNotNull(column string) *Builder {
	b.addNull(Havings, false, true, column)
	return b
}

func (b *Builder) OrHavingNotNull(column string) *Builder {
	b.addNull(Havings, true, true, column)
	return b
}

func (b *Builder) HavingRaw(sql string, bindings ...any) *Builder {
	b.addRaw(Havings, false, sql, bindings)
	return b
}

func (b *Builder) OrHavingRaw(sql string, bindings ...any) *Builder {
	b.addRaw(Havings, true, sql, bindings)
	return b
}

func (b *Builder) UnsetHaving(name string) *Builder {
	b.clauses.Unset(Havings, name)
	return b
}

func (b *Builder) UnsetHavingAt(index int) *Builder {
	b.clauses.UnsetAt(Havings, index)
	return b
}

// Havings returns the having clauses in order.
func (b *Builder) Havings() []Clause {
	return b.clauses.Get(Havings)
}
