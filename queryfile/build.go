package queryfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipq/fluentsql/query"
)

// Build replays f onto a new builder from env.
func (f *File) Build(env query.Env) (*query.Builder, error) {
	if f.Table == "" {
		return nil, fmt.Errorf("%w: missing table", ErrInvalidFile)
	}

	b := env.From(f.Table, f.Alias)
	if len(f.Select) > 0 {
		b.Select(f.Select...)
	}
	if f.Distinct {
		b.Distinct()
	}
	for _, j := range f.Joins {
		if err := addJoin(env, b, j); err != nil {
			return nil, err
		}
	}
	if err := apply(env, whereSink{b}, f.Where); err != nil {
		return nil, err
	}
	if len(f.GroupBy) > 0 {
		b.GroupBy(f.GroupBy...)
	}
	if err := apply(env, havingSink{b}, f.Having); err != nil {
		return nil, err
	}
	for _, o := range f.OrderBy {
		switch {
		case o.Raw:
			b.OrderByRaw(o.Column)
		case o.Direction != "":
			b.OrderBy(o.Column, o.Direction)
		default:
			b.OrderBy(o.Column)
		}
	}
	if f.Limit != nil {
		b.Limit(*f.Limit)
	}
	if f.Offset != nil {
		b.Offset(*f.Offset)
	}
	if len(f.With) > 0 {
		b.With(f.With...)
	}
	return b, b.Err()
}

// Compile builds f and compiles its statement without executing it.
func (f *File) Compile(env query.Env) (string, []any, error) {
	b, err := f.Build(env)
	if err != nil {
		return "", nil, err
	}
	values, err := f.values()
	if err != nil {
		return "", nil, err
	}
	switch f.Statement {
	case Insert:
		return b.ToSQLInsert(values)
	case Update:
		return b.ToSQLUpdate(values)
	case Delete:
		return b.ToSQLDelete()
	}
	if f.Aggregate != nil {
		return b.AggregateToSQL(strings.ToLower(f.Aggregate.Function), f.Aggregate.Columns...)
	}
	return b.ToSQL()
}

// Result is the outcome of Execute. Exactly one of its fields is set
// depending on the statement.
type Result struct {
	Rows      []query.Row `json:"rows,omitempty"`
	Aggregate any         `json:"aggregate,omitempty"`
	// InsertID is the generated id of an insert.
	InsertID int64 `json:"insert_id,omitempty"`
	// Affected counts the rows changed by an update or delete.
	Affected int64 `json:"affected,omitempty"`
}

// Execute builds f and runs it with env's driver. Relations declared in
// the file are loaded unless env already has a loader.
func (f *File) Execute(ctx context.Context, env query.Env) (*Result, error) {
	if env.Loader == nil {
		reg, err := f.Registry()
		if err != nil {
			return nil, err
		}
		if reg != nil {
			env.Loader = reg
		}
	}

	b, err := f.Build(env)
	if err != nil {
		return nil, err
	}

	values, err := f.values()
	if err != nil {
		return nil, err
	}

	var res Result
	switch f.Statement {
	case Insert:
		res.InsertID, err = b.InsertGetID(ctx, values)
	case Update:
		res.Affected, err = b.Update(ctx, values)
	case Delete:
		res.Affected, err = b.Delete(ctx)
	default:
		if f.Aggregate != nil {
			res.Aggregate, err = aggregate(ctx, b, f.Aggregate)
		} else {
			res.Rows, err = b.Get(ctx)
		}
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func aggregate(ctx context.Context, b *query.Builder, a *Aggregate) (any, error) {
	column := ""
	if len(a.Columns) > 0 {
		column = a.Columns[0]
	}
	switch strings.ToLower(a.Function) {
	case "count":
		return b.Count(ctx, a.Columns...)
	case "sum":
		return b.Sum(ctx, column)
	case "min":
		return b.Min(ctx, column)
	case "max":
		return b.Max(ctx, column)
	case "avg":
		return b.Avg(ctx, column)
	default:
		return nil, fmt.Errorf("%w: unknown aggregate %q", ErrInvalidFile, a.Function)
	}
}

func addJoin(env query.Env, b *query.Builder, j Join) error {
	kind := query.InnerJoin
	if j.Type != "" {
		kind = query.JoinType(strings.ToLower(j.Type))
	}
	var err error
	b.JoinOfType(kind, j.Table, func(jc *query.JoinClause) {
		err = apply(env, onSink{jc}, j.On)
	})
	return err
}

func apply(env query.Env, s sink, conds []Condition) error {
	for i, c := range conds {
		if err := applyOne(env, s, c); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

func applyOne(env query.Env, s sink, c Condition) error {
	if c.Name != "" {
		s.named(c.Name)
	}
	switch c.Type {
	case "", "basic":
		v, err := c.required()
		if err != nil {
			return err
		}
		args := []any{v}
		if c.Op != "" {
			args = []any{c.Op, v}
		}
		s.basic(c.Or, c.Not, c.Column, args)
	case "column":
		args := []string{c.Other}
		if c.Op != "" {
			args = []string{c.Op, c.Other}
		}
		s.column(c.Or, c.Column, args)
	case "in":
		s.in(c.Or, c.Not, c.Column, c.Values)
	case "like":
		v, err := c.required()
		if err != nil {
			return err
		}
		s.like(c.Or, c.Not, c.Column, v)
	case "between":
		if len(c.Values) != 2 {
			return fmt.Errorf("%w: between on %q needs exactly 2 values, got %d", ErrInvalidFile, c.Column, len(c.Values))
		}
		s.between(c.Or, c.Not, c.Column, c.Values[0], c.Values[1])
	case "is_null", "null":
		s.null(c.Or, c.Not, c.Column)
	case "raw":
		s.raw(c.Or, c.SQL, c.Values)
	case "nested":
		var err error
		s.nested(c.Or, func(inner sink) {
			err = apply(env, inner, c.Conditions)
		})
		return err
	case "exists":
		if c.Query == nil {
			return fmt.Errorf("%w: exists without query", ErrInvalidFile)
		}
		sub, err := c.Query.Build(env)
		if err != nil {
			return err
		}
		s.exists(c.Or, c.Not, sub)
	default:
		return fmt.Errorf("%w: unknown condition type %q", ErrInvalidFile, c.Type)
	}
	return nil
}

// required returns the condition's value and fails when the document
// gives none. An unquoted "type: null" leaves the type empty, which lands
// here too.
func (c *Condition) required() (any, error) {
	v, ok, err := c.value()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: condition on %q has no value (use type: is_null for null checks)", ErrInvalidFile, c.Column)
	}
	return v, nil
}

// values returns the insert or update assignments in document order.
func (f *File) values() (query.Values, error) {
	if f.Values.Kind == 0 {
		return nil, nil
	}
	content := f.Values.Content
	out := make(query.Values, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		var v any
		if err := content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrInvalidFile, content[i].Value, err)
		}
		out = append(out, query.Value{Column: content[i].Value, Val: number(v)})
	}
	return out, nil
}
