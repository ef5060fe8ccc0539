package query_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/shipq/fluentsql/internal/proptest"
	"github.com/shipq/fluentsql/query"
)

var placeholderToken = regexp.MustCompile(`%[sdf]`)

// addRandomClauses adds between 1 and 8 random clauses to b. depth bounds
// nesting.
func addRandomClauses(g *proptest.Generator, b *query.Builder, depth int) {
	n := g.IntRange(1, 8)
	for range n {
		col := g.IdentifierLower(10)
		or := g.Bool()
		switch g.Intn(9) {
		case 0:
			if or {
				b.OrWhere(col, g.BindValue())
			} else {
				b.Where(col, g.BindValue())
			}
		case 1:
			op := proptest.OneOf(g, "=", "<", ">=", "<>", "like", "not like")
			b.Where(col, op, g.NonNilBindValue())
		case 2:
			values := proptest.SliceN(g, 0, 5, (*proptest.Generator).BindValue)
			if or {
				b.OrWhereNotIn(col, values...)
			} else {
				b.WhereIn(col, values...)
			}
		case 3:
			b.WhereBetween(col, g.BindValue(), g.BindValue())
		case 4:
			b.OrWhereLike(col, g.Text(8))
		case 5:
			b.WhereNull(col)
		case 6:
			raw := proptest.SliceN(g, 0, 3, func(g *proptest.Generator) any { return g.Text(6) })
			tokens := strings.TrimSuffix(strings.Repeat("%s, ", len(raw)), ", ")
			b.WhereRaw(fmt.Sprintf("%s in (%s)", col, tokens), raw...)
		case 7:
			if depth < 3 {
				b.OrWhereNested(func(q *query.Builder) { addRandomClauses(g, q, depth+1) })
			} else {
				b.WhereColumn(col, g.IdentifierLower(10))
			}
		case 8:
			if depth < 3 {
				b.WhereExists(func(q *query.Builder) {
					q.From(g.IdentifierLower(8))
					addRandomClauses(g, q, depth+1)
				})
			} else {
				b.WhereNotNull(col)
			}
		}
	}
}

func randomBuilder(g *proptest.Generator) *query.Builder {
	b := query.New(query.Env{}).From(g.IdentifierLower(12))
	if g.Bool() {
		b.JoinFunc(g.IdentifierLower(8), func(j *query.JoinClause) {
			j.OnColumn("a.id", "b.id")
			j.On("a.kind", g.NonNilBindValue())
		})
	}
	addRandomClauses(g, b, 0)
	return b
}

func TestPropertyPlaceholdersMatchBindings(t *testing.T) {
	proptest.QuickCheck(t, "one binding per placeholder, same type", func(g *proptest.Generator) bool {
		sql, bindings, err := randomBuilder(g).ToSQL()
		if err != nil {
			t.Logf("unexpected error: %v", err)
			return false
		}
		tokens := placeholderToken.FindAllString(sql, -1)
		if len(tokens) != len(bindings) {
			t.Logf("%d placeholders, %d bindings: %s", len(tokens), len(bindings), sql)
			return false
		}
		for i, v := range bindings {
			if want, _, _ := query.Placeholder(v); want != tokens[i] {
				t.Logf("binding %d (%v) has token %s, want %s", i, v, tokens[i], want)
				return false
			}
		}
		return true
	})
}

func TestPropertyBindingsFollowClauseOrder(t *testing.T) {
	proptest.QuickCheck(t, "compiled bindings equal walked values", func(g *proptest.Generator) bool {
		b := randomBuilder(g)
		_, bindings, err := b.ToSQL()
		if err != nil {
			return false
		}
		want := query.CollectValues(b)
		if want == nil {
			want = []any{}
		}
		return fmt.Sprint(want) == fmt.Sprint(bindings)
	})
}

func TestPropertyToSQLIdempotent(t *testing.T) {
	proptest.QuickCheck(t, "compiling twice yields identical output", func(g *proptest.Generator) bool {
		b := randomBuilder(g)
		sql1, bind1, err1 := b.ToSQL()
		sql2, bind2, err2 := b.ToSQL()
		return err1 == nil && err2 == nil && sql1 == sql2 && fmt.Sprint(bind1) == fmt.Sprint(bind2)
	})
}

func TestPropertyTwoArgumentWhere(t *testing.T) {
	proptest.QuickCheck(t, "where(col, val) is col = placeholder", func(g *proptest.Generator) bool {
		col := g.IdentifierLower(10)
		v := g.NonNilBindValue()
		sql, bindings, err := query.New(query.Env{}).From("t").Where(col, v).ToSQL()
		token, bound, _ := query.Placeholder(v)
		return err == nil &&
			sql == "select * from t as t where "+col+" = "+token &&
			len(bindings) == 1 && fmt.Sprint(bindings[0]) == fmt.Sprint(bound)
	})
}

func TestPropertyOrderDirection(t *testing.T) {
	proptest.QuickCheck(t, "only asc and desc are accepted", func(g *proptest.Generator) bool {
		dir := proptest.OneOf(g, "asc", "desc", "ASC", "Desc", g.Text(5), g.IdentifierLower(4))
		_, _, err := query.New(query.Env{}).From("t").OrderBy("c", dir).ToSQL()
		lower := strings.ToLower(dir)
		if lower == "asc" || lower == "desc" {
			return err == nil
		}
		return err != nil
	})
}

func TestPropertyBetweenArity(t *testing.T) {
	proptest.QuickCheck(t, "between accepts exactly two values", func(g *proptest.Generator) bool {
		values := proptest.SliceN(g, 0, 4, (*proptest.Generator).NonNilBindValue)
		b := query.New(query.Env{}).From("t").WhereBetweenValues("c", values)
		if len(values) == 2 {
			return b.Err() == nil
		}
		return b.Err() != nil
	})
}
