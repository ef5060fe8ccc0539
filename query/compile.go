package query

import (
	"fmt"
	"strings"
)

// CompilerState tracks the bindings collected during one compilation.
type CompilerState struct {
	Bindings []any
}

// Compiler turns builder state into SQL text and bindings.
// It never mutates the builder; state is reset at every top-level call so
// repeated compilation of the same builder yields the same result.
type Compiler struct {
	state *CompilerState
}

// NewCompiler creates a new compiler.
func NewCompiler() *Compiler {
	return &Compiler{state: &CompilerState{}}
}

func (c *Compiler) reset() {
	c.state.Bindings = nil
}

func (c *Compiler) result(b *strings.Builder) (string, []any) {
	bindings := c.state.Bindings
	if bindings == nil {
		bindings = []any{}
	}
	return b.String(), bindings
}

// Select compiles q as a SELECT statement.
func (c *Compiler) Select(q *Builder) (string, []any, error) {
	c.reset()

	var b strings.Builder
	if err := c.compileSelectInto(q, &b); err != nil {
		return "", nil, err
	}
	sql, bindings := c.result(&b)
	return sql, bindings, nil
}

// Insert compiles an INSERT of values into q's table.
func (c *Compiler) Insert(q *Builder, values Values) (string, []any, error) {
	c.reset()

	if err := ValidateBuilder(q); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("insert into %s: %w", q.table, ErrEmptyValues)
	}

	var b strings.Builder
	b.WriteString("insert into ")
	b.WriteString(q.table)
	b.WriteString(" (")
	b.WriteString(strings.Join(values.Columns(), ", "))
	b.WriteString(") values (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.bind(v.Val))
	}
	b.WriteString(")")

	sql, bindings := c.result(&b)
	return sql, bindings, nil
}

// Update compiles an UPDATE of q's table restricted by q's where clauses.
func (c *Compiler) Update(q *Builder, values Values) (string, []any, error) {
	c.reset()

	if err := ValidateBuilder(q); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("update %s: %w", q.table, ErrEmptyValues)
	}

	var b strings.Builder
	b.WriteString("update ")
	b.WriteString(q.table)
	b.WriteString(" set ")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Column)
		b.WriteString(" = ")
		b.WriteString(c.bind(v.Val))
	}
	if err := c.writeWhere(&b, q); err != nil {
		return "", nil, err
	}

	sql, bindings := c.result(&b)
	return sql, bindings, nil
}

// Delete compiles "delete <alias> from <table> as <alias> <joins> <where>".
// The alias qualification keeps multi-table deletes well formed.
func (c *Compiler) Delete(q *Builder) (string, []any, error) {
	c.reset()

	if err := ValidateBuilder(q); err != nil {
		return "", nil, err
	}

	var joins strings.Builder
	for i, j := range q.joins {
		if i > 0 {
			joins.WriteString(" ")
		}
		if err := c.writeJoin(&joins, j); err != nil {
			return "", nil, err
		}
	}

	var where strings.Builder
	if err := c.writeWhere(&where, q); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "delete %s from %s as %s %s%s", q.alias, q.table, q.alias, joins.String(), where.String())

	sql, bindings := c.result(&b)
	return strings.TrimRight(sql, " "), bindings, nil
}

// =============================================================================
// SELECT Compilation
// =============================================================================

// compileSelectInto does not reset state, so subqueries share the parent's
// binding list.
func (c *Compiler) compileSelectInto(q *Builder, b *strings.Builder) error {
	if err := ValidateBuilder(q); err != nil {
		return err
	}

	b.WriteString("select ")
	if q.distinct {
		b.WriteString("distinct ")
	}
	switch {
	case q.aggregate != nil:
		cols := "*"
		if len(q.aggregate.Columns) > 0 {
			cols = strings.Join(q.aggregate.Columns, ", ")
		}
		fmt.Fprintf(b, "%s(%s) as aggregate", q.aggregate.Function, cols)
	case len(q.columns) > 0:
		b.WriteString(strings.Join(q.columns, ", "))
	default:
		b.WriteString("*")
	}

	b.WriteString(" from ")
	b.WriteString(q.table)
	b.WriteString(" as ")
	b.WriteString(q.alias)

	for _, j := range q.joins {
		b.WriteString(" ")
		if err := c.writeJoin(b, j); err != nil {
			return err
		}
	}

	if err := c.writeWhere(b, q); err != nil {
		return err
	}

	if len(q.groups) > 0 {
		b.WriteString(" group by ")
		b.WriteString(strings.Join(q.groups, ", "))
	}

	if havings := q.clauses.Get(Havings); len(havings) > 0 {
		b.WriteString(" having ")
		if err := c.writeClauses(b, segment{Havings, havings}); err != nil {
			return err
		}
	}

	if len(q.orders) > 0 {
		b.WriteString(" order by ")
		for i, o := range q.orders {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(o.Column)
			if o.Direction != "" {
				b.WriteString(" ")
				b.WriteString(o.Direction)
			}
		}
	}

	if q.limit > 0 {
		b.WriteString(" limit ")
		b.WriteString(c.bind(q.limit))
		if q.hasOffset {
			b.WriteString(" offset ")
			b.WriteString(c.bind(q.offset))
		}
	}

	return nil
}

// writeWhere writes " where <clauses>" when q has where clauses.
func (c *Compiler) writeWhere(b *strings.Builder, q *Builder) error {
	wheres := q.clauses.Get(Wheres)
	if len(wheres) == 0 {
		return nil
	}
	b.WriteString(" where ")
	return c.writeClauses(b, segment{Wheres, wheres})
}

// writeJoin writes "<type> join <table> as <alias> on <ons> <wheres>".
func (c *Compiler) writeJoin(b *strings.Builder, j *JoinClause) error {
	if j.err != nil {
		return j.err
	}
	if j.table == "" {
		return fmt.Errorf("join: %w", ErrNoTable)
	}

	if j.derived() {
		return c.writeDerivedJoin(b, j)
	}
	fmt.Fprintf(b, "%s join %s as %s", j.Type, j.table, j.alias)

	ons := j.clauses.Get(Ons)
	wheres := j.clauses.Get(Wheres)
	if len(ons)+len(wheres) == 0 {
		return nil
	}
	b.WriteString(" on ")
	return c.writeClauses(b, segment{Ons, ons}, segment{Wheres, wheres})
}

// writeDerivedJoin writes a join whose own projection or grouping makes it
// a subselect: "<type> join (select <cols> from <table> as <alias> where
// <wheres> group by <groups>) as <alias> on <ons>". Unlike a plain join,
// its where clauses filter the subselect.
func (c *Compiler) writeDerivedJoin(b *strings.Builder, j *JoinClause) error {
	cols := "*"
	if len(j.columns) > 0 {
		cols = strings.Join(j.columns, ", ")
	}
	fmt.Fprintf(b, "%s join (select %s from %s as %s", j.Type, cols, j.table, j.alias)
	if err := c.writeWhere(b, j.Builder); err != nil {
		return err
	}
	if len(j.groups) > 0 {
		b.WriteString(" group by ")
		b.WriteString(strings.Join(j.groups, ", "))
	}
	fmt.Fprintf(b, ") as %s", j.alias)

	if ons := j.clauses.Get(Ons); len(ons) > 0 {
		b.WriteString(" on ")
		return c.writeClauses(b, segment{Ons, ons})
	}
	return nil
}

// =============================================================================
// Clause Compilation
// =============================================================================

// segment is a run of clauses from one family. Nested clauses render the
// same family of their child builder.
type segment struct {
	family  Family
	clauses []Clause
}

// writeClauses renders the segments as one boolean chain. The first
// rendered clause drops its boolean.
func (c *Compiler) writeClauses(b *strings.Builder, segments ...segment) error {
	n := 0
	for _, seg := range segments {
		for _, cl := range seg.clauses {
			if nested, ok := cl.(NestedClause); ok && nested.Query.clauses.Len(seg.family) == 0 {
				if nested.Query.err != nil {
					return nested.Query.err
				}
				continue
			}
			if n > 0 {
				b.WriteString(" ")
				b.WriteString(string(cl.joiner()))
				b.WriteString(" ")
			}
			if err := c.writeClause(b, seg.family, cl); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}

func not(b *strings.Builder, negate bool) {
	if negate {
		b.WriteString("not ")
	}
}

func (c *Compiler) writeClause(b *strings.Builder, family Family, cl Clause) error {
	switch t := cl.(type) {
	case BasicClause:
		not(b, t.Not)
		fmt.Fprintf(b, "%s %s %s", t.Column, t.Operator, c.bind(t.Value))

	case ColumnClause:
		fmt.Fprintf(b, "%s %s %s", t.First, t.Operator, t.Second)

	case NestedClause:
		if t.Query.err != nil {
			return t.Query.err
		}
		b.WriteString("(")
		if err := c.writeClauses(b, segment{family, t.Query.clauses.Get(family)}); err != nil {
			return err
		}
		b.WriteString(")")

	case ExistsClause:
		not(b, t.Not)
		b.WriteString("exists (")
		if err := c.compileSelectInto(t.Query, b); err != nil {
			return fmt.Errorf("exists subquery: %w", err)
		}
		b.WriteString(")")

	case InClause:
		if len(t.Values) == 0 {
			// An empty list matches nothing; its negation matches everything.
			if t.Not {
				b.WriteString("1 = 1")
			} else {
				b.WriteString("0 = 1")
			}
			return nil
		}
		b.WriteString(t.Column)
		b.WriteString(" ")
		not(b, t.Not)
		b.WriteString("in (")
		for i, v := range t.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.bind(v))
		}
		b.WriteString(")")

	case LikeClause:
		b.WriteString(t.Column)
		b.WriteString(" ")
		not(b, t.Not)
		b.WriteString("like ")
		b.WriteString(c.bind(t.Value))

	case BetweenClause:
		b.WriteString(t.Column)
		b.WriteString(" ")
		not(b, t.Not)
		b.WriteString("between ")
		b.WriteString(c.bind(t.Low))
		b.WriteString(" and ")
		b.WriteString(c.bind(t.High))

	case NullClause:
		b.WriteString(t.Column)
		b.WriteString(" is ")
		not(b, t.Not)
		b.WriteString("null")

	case RawClause:
		b.WriteString(t.SQL)
		c.state.Bindings = append(c.state.Bindings, t.Bindings...)

	default:
		return fmt.Errorf("unsupported clause type: %T", cl)
	}
	return nil
}

// bind records v and returns its placeholder token.
func (c *Compiler) bind(v any) string {
	token, value, ok := Placeholder(v)
	if ok {
		c.state.Bindings = append(c.state.Bindings, value)
	}
	return token
}
