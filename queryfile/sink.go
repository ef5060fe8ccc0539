package queryfile

import "github.com/shipq/fluentsql/query"

// sink adds conditions to one clause family under the family's own method
// names.
type sink interface {
	named(name string)
	basic(or, not bool, column string, args []any)
	column(or bool, first string, args []string)
	in(or, not bool, column string, values []any)
	like(or, not bool, column string, value any)
	between(or, not bool, column string, low, high any)
	null(or, not bool, column string)
	raw(or bool, sql string, bindings []any)
	nested(or bool, fn func(sink))
	exists(or, not bool, sub *query.Builder)
}

// pick selects the variant of a method for the or/not combination.
func pick[F any](or, not bool, and, orF, andNot, orNot F) F {
	switch {
	case or && not:
		return orNot
	case or:
		return orF
	case not:
		return andNot
	default:
		return and
	}
}

func pick2[F any](or bool, and, orF F) F {
	if or {
		return orF
	}
	return and
}

type whereSink struct{ b *query.Builder }

func (s whereSink) named(name string) { s.b.Named(name) }

func (s whereSink) basic(or, not bool, column string, args []any) {
	pick(or, not, s.b.Where, s.b.OrWhere, s.b.WhereNot, s.b.OrWhereNot)(column, args...)
}

func (s whereSink) column(or bool, first string, args []string) {
	pick2(or, s.b.WhereColumn, s.b.OrWhereColumn)(first, args...)
}

func (s whereSink) in(or, not bool, column string, values []any) {
	pick(or, not, s.b.WhereIn, s.b.OrWhereIn, s.b.WhereNotIn, s.b.OrWhereNotIn)(column, values...)
}

func (s whereSink) like(or, not bool, column string, value any) {
	pick(or, not, s.b.WhereLike, s.b.OrWhereLike, s.b.WhereNotLike, s.b.OrWhereNotLike)(column, value)
}

func (s whereSink) between(or, not bool, column string, low, high any) {
	pick(or, not, s.b.WhereBetween, s.b.OrWhereBetween, s.b.WhereNotBetween, s.b.OrWhereNotBetween)(column, low, high)
}

func (s whereSink) null(or, not bool, column string) {
	pick(or, not, s.b.WhereNull, s.b.OrWhereNull, s.b.WhereNotNull, s.b.OrWhereNotNull)(column)
}

func (s whereSink) raw(or bool, sql string, bindings []any) {
	pick2(or, s.b.WhereRaw, s.b.OrWhereRaw)(sql, bindings...)
}

func (s whereSink) nested(or bool, fn func(sink)) {
	pick2(or, s.b.WhereNested, s.b.OrWhereNested)(func(q *query.Builder) { fn(whereSink{q}) })
}

func (s whereSink) exists(or, not bool, sub *query.Builder) {
	pick(or, not, s.b.WhereExistsQuery, s.b.OrWhereExistsQuery, s.b.WhereNotExistsQuery, s.b.OrWhereNotExistsQuery)(sub)
}

type havingSink struct{ b *query.Builder }

func (s havingSink) named(name string) { s.b.Named(name) }

func (s havingSink) basic(or, not bool, column string, args []any) {
	pick(or, not, s.b.Having, s.b.OrHaving, s.b.HavingNot, s.b.OrHavingNot)(column, args...)
}

func (s havingSink) column(or bool, first string, args []string) {
	pick2(or, s.b.HavingColumn, s.b.OrHavingColumn)(first, args...)
}

func (s havingSink) in(or, not bool, column string, values []any) {
	pick(or, not, s.b.HavingIn, s.b.OrHavingIn, s.b.HavingNotIn, s.b.OrHavingNotIn)(column, values...)
}

func (s havingSink) like(or, not bool, column string, value any) {
	pick(or, not, s.b.HavingLike, s.b.OrHavingLike, s.b.HavingNotLike, s.b.OrHavingNotLike)(column, value)
}

func (s havingSink) between(or, not bool, column string, low, high any) {
	pick(or, not, s.b.HavingBetween, s.b.OrHavingBetween, s.b.HavingNotBetween, s.b.OrHavingNotBetween)(column, low, high)
}

func (s havingSink) null(or, not bool, column string) {
	pick(or, not, s.b.HavingNull, s.b.OrHavingNull, s.b.HavingNotNull, s.b.OrHavingNotNull)(column)
}

func (s havingSink) raw(or bool, sql string, bindings []any) {
	pick2(or, s.b.HavingRaw, s.b.OrHavingRaw)(sql, bindings...)
}

func (s havingSink) nested(or bool, fn func(sink)) {
	pick2(or, s.b.HavingNested, s.b.OrHavingNested)(func(q *query.Builder) { fn(havingSink{q}) })
}

func (s havingSink) exists(or, not bool, sub *query.Builder) {
	pick(or, not, s.b.HavingExistsQuery, s.b.OrHavingExistsQuery, s.b.HavingNotExistsQuery, s.b.OrHavingNotExistsQuery)(sub)
}

type onSink struct{ j *query.JoinClause }

func (s onSink) named(name string) { s.j.NamedOn(name) }

func (s onSink) basic(or, not bool, column string, args []any) {
	pick(or, not, s.j.On, s.j.OrOn, s.j.OnNot, s.j.OrOnNot)(column, args...)
}

func (s onSink) column(or bool, first string, args []string) {
	pick2(or, s.j.OnColumn, s.j.OrOnColumn)(first, args...)
}

func (s onSink) in(or, not bool, column string, values []any) {
	pick(or, not, s.j.OnIn, s.j.OrOnIn, s.j.OnNotIn, s.j.OrOnNotIn)(column, values...)
}

func (s onSink) like(or, not bool, column string, value any) {
	pick(or, not, s.j.OnLike, s.j.OrOnLike, s.j.OnNotLike, s.j.OrOnNotLike)(column, value)
}

func (s onSink) between(or, not bool, column string, low, high any) {
	pick(or, not, s.j.OnBetween, s.j.OrOnBetween, s.j.OnNotBetween, s.j.OrOnNotBetween)(column, low, high)
}

func (s onSink) null(or, not bool, column string) {
	pick(or, not, s.j.OnNull, s.j.OrOnNull, s.j.OnNotNull, s.j.OrOnNotNull)(column)
}

func (s onSink) raw(or bool, sql string, bindings []any) {
	pick2(or, s.j.OnRaw, s.j.OrOnRaw)(sql, bindings...)
}

func (s onSink) nested(or bool, fn func(sink)) {
	pick2(or, s.j.OnNested, s.j.OrOnNested)(func(j *query.JoinClause) { fn(onSink{j}) })
}

func (s onSink) exists(or, not bool, sub *query.Builder) {
	pick(or, not, s.j.OnExistsQuery, s.j.OrOnExistsQuery, s.j.OnNotExistsQuery, s.j.OrOnNotExistsQuery)(sub)
}
