package query

import (
	"context"
	"fmt"
)

// setAggregate replaces the projection with fn(columns). Orders are
// dropped when there is no grouping because they are meaningless on a
// scalar result.
func (b *Builder) setAggregate(fn string, columns []string) {
	b.aggregate = &Aggregate{Function: fn, Columns: append([]string(nil), columns...)}
	if len(b.groups) == 0 {
		b.orders = nil
	}
}

// AggregateToSQL compiles the query with fn(columns) as its projection
// without executing it.
func (b *Builder) AggregateToSQL(fn string, columns ...string) (string, []any, error) {
	b.setAggregate(fn, columns)
	return b.ToSQL()
}

// aggregateValue runs the aggregate and returns the "aggregate" column of
// the first row, or nil when there is no row.
func (b *Builder) aggregateValue(ctx context.Context, fn string, columns []string) (any, error) {
	b.setAggregate(fn, columns)

	relations := b.relations
	b.relations = nil
	rows, err := b.Get(ctx)
	b.relations = relations
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v, ok := rows[0]["aggregate"]
	if !ok {
		return nil, fmt.Errorf("%s on %s: result has no aggregate column", fn, b.table)
	}
	return v, nil
}

// Count returns count(columns), or count(*) with no columns.
func (b *Builder) Count(ctx context.Context, columns ...string) (any, error) {
	return b.aggregateValue(ctx, "count", columns)
}

func (b *Builder) Min(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "min", []string{column})
}

func (b *Builder) Max(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "max", []string{column})
}

func (b *Builder) Avg(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "avg", []string{column})
}

// Sum returns sum(column). An empty or null result is reported as 0.
func (b *Builder) Sum(ctx context.Context, column string) (any, error) {
	v, err := b.aggregateValue(ctx, "sum", []string{column})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return 0, nil
	}
	return v, nil
}
