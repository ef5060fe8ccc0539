package query

// This file holds the family-agnostic clause operations. where.go,
// having.go and join.go expose them under family-specific names.

func boolean(or bool) Boolean {
	if or {
		return Or
	}
	return And
}

// push stores c in family f, consuming any name set with Named.
func (b *Builder) push(f Family, c Clause) {
	name := b.pendingName
	b.pendingName = ""
	b.clauses.Set(f, c, name)
}

func (b *Builder) addBasic(f Family, or, not bool, column string, args []any) {
	op, value, err := normalizeComparison(args)
	if err != nil {
		b.pendingName = ""
		b.fail(err)
		return
	}
	b.push(f, BasicClause{Boolean: boolean(or), Not: not, Column: column, Operator: op, Value: value})
}

func (b *Builder) addColumn(f Family, or bool, first string, args []string) {
	op, second, err := normalizeColumnComparison(args)
	if err != nil {
		b.pendingName = ""
		b.fail(err)
		return
	}
	b.push(f, ColumnClause{Boolean: boolean(or), First: first, Operator: op, Second: second})
}

// addNested stores a group whose members are child's clauses of family f.
func (b *Builder) addNested(f Family, or bool, child *Builder) {
	b.adopt(child)
	b.push(f, NestedClause{Boolean: boolean(or), Query: child})
}

func (b *Builder) addExists(f Family, or, not bool, sub *Builder) {
	if sub == nil {
		b.pendingName = ""
		b.failf("nil exists subquery")
		return
	}
	b.adopt(sub)
	b.push(f, ExistsClause{Boolean: boolean(or), Not: not, Query: sub})
}

// existsFrom runs fn against a fresh child and stores it as an exists
// subquery.
func (b *Builder) existsFrom(f Family, or, not bool, fn func(*Builder)) {
	sub := b.child()
	fn(sub)
	b.addExists(f, or, not, sub)
}

func (b *Builder) addIn(f Family, or, not bool, column string, values []any) {
	b.push(f, InClause{Boolean: boolean(or), Not: not, Column: column, Values: append([]any(nil), values...)})
}

func (b *Builder) addLike(f Family, or, not bool, column string, value any) {
	b.push(f, LikeClause{Boolean: boolean(or), Not: not, Column: column, Value: value})
}

func (b *Builder) addBetween(f Family, or, not bool, column string, low, high any) {
	b.push(f, BetweenClause{Boolean: boolean(or), Not: not, Column: column, Low: low, High: high})
}

// addBetweenValues accepts the bounds as a slice, which must hold exactly two values.
func (b *Builder) addBetweenValues(f Family, or, not bool, column string, values []any) {
	if len(values) != 2 {
		b.pendingName = ""
		b.failf("between on %q needs exactly 2 values, got %d", column, len(values))
		return
	}
	b.addBetween(f, or, not, column, values[0], values[1])
}

func (b *Builder) addNull(f Family, or, not bool, column string) {
	b.push(f, NullClause{Boolean: boolean(or), Not: not, Column: column})
}

func (b *Builder) addRaw(f Family, or bool, sql string, bindings []any) {
	b.push(f, RawClause{Boolean: boolean(or), SQL: sql, Bindings: append([]any(nil), bindings...)})
}
