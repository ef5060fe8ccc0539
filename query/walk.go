package query

// ClauseVisitor is called for each clause during a walk, with the family
// the clause belongs to. Return false to skip the clause's subquery.
type ClauseVisitor func(family Family, clause Clause) bool

// WalkClauses visits clauses depth-first. Nested groups are walked in the
// same family; exists subqueries are walked as full SELECTs.
func WalkClauses(family Family, clauses []Clause, visit ClauseVisitor) {
	for _, cl := range clauses {
		if !visit(family, cl) {
			continue
		}
		switch c := cl.(type) {
		case NestedClause:
			if c.Query != nil {
				WalkClauses(family, c.Query.clauses.Get(family), visit)
			}
		case ExistsClause:
			if c.Query != nil {
				WalkBuilder(c.Query, visit)
			}
		}
	}
}

// WalkBuilder visits every clause of a SELECT in the order the compiler
// renders them: joins (on, then where; where, then on for a derived
// join), where, having.
func WalkBuilder(q *Builder, visit ClauseVisitor) {
	if q == nil {
		return
	}
	for _, j := range q.joins {
		if j.derived() {
			WalkClauses(Wheres, j.clauses.Get(Wheres), visit)
			WalkClauses(Ons, j.clauses.Get(Ons), visit)
			continue
		}
		WalkClauses(Ons, j.clauses.Get(Ons), visit)
		WalkClauses(Wheres, j.clauses.Get(Wheres), visit)
	}
	WalkClauses(Wheres, q.clauses.Get(Wheres), visit)
	WalkClauses(Havings, q.clauses.Get(Havings), visit)
}

// CollectValues returns the values the clauses of q will bind, in
// emission order. Nil values are skipped because they render as null.
// Limit and offset are not clause values and are not included.
func CollectValues(q *Builder) []any {
	var out []any
	add := func(v any) {
		if _, value, ok := Placeholder(v); ok {
			out = append(out, value)
		}
	}
	WalkBuilder(q, func(_ Family, cl Clause) bool {
		switch c := cl.(type) {
		case BasicClause:
			add(c.Value)
		case InClause:
			for _, v := range c.Values {
				add(v)
			}
		case LikeClause:
			add(c.Value)
		case BetweenClause:
			add(c.Low)
			add(c.High)
		case RawClause:
			out = append(out, c.Bindings...)
		}
		return true
	})
	return out
}
