package query

import (
	"fmt"
	"strings"
)

// JoinType is the kind of join.
type JoinType string

const (
	InnerJoin JoinType = "inner"
	LeftJoin  JoinType = "left"
	RightJoin JoinType = "right"
)

// JoinClause is one joined table. It is a full Builder, so besides its own
// on clauses it can carry where-style clauses that are appended to the
// join condition.
type JoinClause struct {
	*Builder
	Type JoinType
}

// newJoin resolves target, which may be "table" or "table as alias".
func (b *Builder) newJoin(target string, kind JoinType) *JoinClause {
	j := &JoinClause{Builder: b.child(), Type: kind}
	table, alias := splitAlias(target)
	j.From(table, alias)
	return j
}

func splitAlias(target string) (string, string) {
	fields := strings.Fields(target)
	if len(fields) == 3 && strings.EqualFold(fields[1], "as") {
		return fields[0], fields[2]
	}
	return strings.TrimSpace(target), ""
}

// addJoin also drops a pending Named: a join is not a clause of b, and the
// name must not leak onto a later clause.
func (b *Builder) addJoin(j *JoinClause) {
	b.pendingName = ""
	b.adopt(j.Builder)
	b.joins = append(b.joins, j)
}

// joinOn adds a join whose condition compares two columns.
func (b *Builder) joinOn(kind JoinType, table, first, operator, second string) *Builder {
	j := b.newJoin(table, kind)
	j.OnColumn(first, operator, second)
	b.addJoin(j)
	return b
}

// joinWhere adds a join whose condition binds value instead of naming a
// second column.
func (b *Builder) joinWhere(kind JoinType, table, first, operator string, value any) *Builder {
	j := b.newJoin(table, kind)
	j.Where(first, operator, value)
	b.addJoin(j)
	return b
}

func (b *Builder) joinFunc(kind JoinType, table string, fn func(j *JoinClause)) *Builder {
	j := b.newJoin(table, kind)
	fn(j)
	b.addJoin(j)
	return b
}

// Join adds an inner join on first operator second, both columns.
//
//	Join("users", "posts.author_id", "=", "users.id")
func (b *Builder) Join(table, first, operator, second string) *Builder {
	return b.joinOn(InnerJoin, table, first, operator, second)
}

// JoinFunc adds an inner join configured by fn.
func (b *Builder) JoinFunc(table string, fn func(j *JoinClause)) *Builder {
	return b.joinFunc(InnerJoin, table, fn)
}

// JoinWhere adds an inner join whose condition is first operator value.
func (b *Builder) JoinWhere(table, first, operator string, value any) *Builder {
	return b.joinWhere(InnerJoin, table, first, operator, value)
}

func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.joinOn(LeftJoin, table, first, operator, second)
}

func (b *Builder) LeftJoinFunc(table string, fn func(j *JoinClause)) *Builder {
	return b.joinFunc(LeftJoin, table, fn)
}

func (b *Builder) LeftJoinWhere(table, first, operator string, value any) *Builder {
	return b.joinWhere(LeftJoin, table, first, operator, value)
}

func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.joinOn(RightJoin, table, first, operator, second)
}

func (b *Builder) RightJoinFunc(table string, fn func(j *JoinClause)) *Builder {
	return b.joinFunc(RightJoin, table, fn)
}

func (b *Builder) RightJoinWhere(table, first, operator string, value any) *Builder {
	return b.joinWhere(RightJoin, table, first, operator, value)
}

// JoinOfType adds a join of any kind configured by fn.
func (b *Builder) JoinOfType(kind JoinType, table string, fn func(j *JoinClause)) *Builder {
	switch kind {
	case InnerJoin, LeftJoin, RightJoin:
	default:
		b.failf("unknown join type %q", kind)
		return b
	}
	return b.joinFunc(kind, table, fn)
}

// derived reports whether the join selects or groups its own rows and so
// compiles to a subselect.
func (j *JoinClause) derived() bool {
	return len(j.columns) > 0 || len(j.groups) > 0
}

// String returns "<kind> join <table> as <alias>" for diagnostics.
func (j *JoinClause) String() string {
	return fmt.Sprintf("%s join %s as %s", j.Type, j.table, j.alias)
}

// =============================================================================
// On clauses
// =============================================================================

// On adds first op value to the join condition, binding value.
func (j *JoinClause) On(column string, args ...any) *JoinClause {
	j.addBasic(Ons, false, false, column, args)
	return j
}

func (j *JoinClause) OrOn(column string, args ...any) *JoinClause {
	j.addBasic(Ons, true, false, column, args)
	return j
}

func (j *JoinClause) OnNot(column string, args ...any) *JoinClause {
	j.addBasic(Ons, false, true, column, args)
	return j
}

func (j *JoinClause) OrOnNot(column string, args ...any) *JoinClause {
	j.addBasic(Ons, true, true, column, args)
	return j
}

// OnNested groups the on clauses fn adds to a fresh join clause.
func (j *JoinClause) OnNested(fn func(j *JoinClause)) *JoinClause {
	j.onNested(false, fn)
	return j
}

func (j *JoinClause) OrOnNested(fn func(j *JoinClause)) *JoinClause {
	j.onNested(true, fn)
	return j
}

func (j *JoinClause) onNested(or bool, fn func(j *JoinClause)) {
	child := &JoinClause{Builder: j.child(), Type: j.Type}
	fn(child)
	j.addNested(Ons, or, child.Builder)
}

// OnColumn compares two columns in the join condition.
func (j *JoinClause) OnColumn(first string, args ...string) *JoinClause {
	j.addColumn(Ons, false, first, args)
	return j
}

func (j *JoinClause) OrOnColumn(first string, args ...string) *JoinClause {
	j.addColumn(Ons, true, first, args)
	return j
}

func (j *JoinClause) OnExists(fn func(q *Builder)) *JoinClause {
	j.existsFrom(Ons, false, false, fn)
	return j
}

func (j *JoinClause) OrOnExists(fn func(q *Builder)) *JoinClause {
	j.existsFrom(Ons, true, false, fn)
	return j
}

func (j *JoinClause) OnNotExists(fn func(q *Builder)) *JoinClause {
	j.existsFrom(Ons, false, true, fn)
	return j
}

func (j *JoinClause) OrOnNotExists(fn func(q *Builder)) *JoinClause {
	j.existsFrom(Ons, true, true, fn)
	return j
}

func (j *JoinClause) OnExistsQuery(sub *Builder) *JoinClause {
	j.addExists(Ons, false, false, sub)
	return j
}

func (j *JoinClause) OrOnExistsQuery(sub *Builder) *JoinClause {
	j.addExists(Ons, true, false, sub)
	return j
}

func (j *JoinClause) OnNotExistsQuery(sub *Builder) *JoinClause {
	j.addExists(Ons, false, true, sub)
	return j
}

func (j *JoinClause) OrOnNotExistsQuery(sub *Builder) *JoinClause {
	j.addExists(Ons, true, true, sub)
	return j
}

func (j *JoinClause) OnIn(column string, values ...any) *JoinClause {
	j.addIn(Ons, false, false, column, values)
	return j
}

func (j *JoinClause) OrOnIn(column string, values ...any) *JoinClause {
	j.addIn(Ons, true, false, column, values)
	return j
}

func (j *JoinClause) OnNotIn(column string, values ...any) *JoinClause {
	j.addIn(Ons, false, true, column, values)
	return j
}

func (j *JoinClause) OrOnNotIn(column string, values ...any) *JoinClause {
	j.addIn(Ons, true, true, column, values)
	return j
}

func (j *JoinClause) OnLike(column string, value any) *JoinClause {
	j.addLike(Ons, false, false, column, value)
	return j
}

func (j *JoinClause) OrOnLike(column string, value any) *JoinClause {
	j.addLike(Ons, true, false, column, value)
	return j
}

func (j *JoinClause) OnNotLike(column string, value any) *JoinClause {
	j.addLike(Ons, false, true, column, value)
	return j
}

func (j *JoinClause) OrOnNotLike(column string, value any) *JoinClause {
	j.addLike(Ons, true, true, column, value)
	return j
}

func (j *JoinClause) OnBetween(column string, low, high any) *JoinClause {
	j.addBetween(Ons, false, false, column, low, high)
	return j
}

func (j *JoinClause) OrOnBetween(column string, low, high any) *JoinClause {
	j.addBetween(Ons, true, false, column, low, high)
	return j
}

func (j *JoinClause) OnNotBetween(column string, low, high any) *JoinClause {
	j.addBetween(Ons, false, true, column, low, high)
	return j
}

func (j *JoinClause) OrOnNotBetween(column string, low, high any) *JoinClause {
	j.addBetween(Ons, true, true, column, low, high)
	return j
}

func (j *JoinClause) OnBetweenValues(column string, values []any) *JoinClause {
	j.addBetweenValues(Ons, false, false, column, values)
	return j
}

func (j *JoinClause) OnNull(column string) *JoinClause {
	j.addNull(Ons, false, false, column)
	return j
}

func (j *JoinClause) OrOnNull(column string) *JoinClause {
	j.addNull(Ons, true, false, column)
	return j
}

func (j *JoinClause) OnNotNull(column string) *JoinClause {
	j.addNull(Ons, false, true, column)
	return j
}

func (j *JoinClause) OrOnNotNull(column string) *JoinClause {
	j.addNull(Ons, true, true, column)
	return j
}

func (j *JoinClause) OnRaw(sql string, bindings ...any) *JoinClause {
	j.addRaw(Ons, false, sql, bindings)
	return j
}

func (j *JoinClause) OrOnRaw(sql string, bindings ...any) *JoinClause {
	j.addRaw(Ons, true, sql, bindings)
	return j
}

func (j *JoinClause) UnsetOn(name string) *JoinClause {
	j.clauses.Unset(Ons, name)
	return j
}

func (j *JoinClause) UnsetOnAt(index int) *JoinClause {
	j.clauses.UnsetAt(Ons, index)
	return j
}

// NamedOn tags the next clause added to the join.
func (j *JoinClause) NamedOn(name string) *JoinClause {
	j.pendingName = name
	return j
}

// Ons returns the join's on clauses in order.
func (j *JoinClause) Ons() []Clause {
	return j.clauses.Get(Ons)
}
