package query

import (
	"context"
	"fmt"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Result describes the effect of a statement.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Driver executes compiled statements. sql uses %s, %d and %f placeholders
// matched positionally by args.
type Driver interface {
	Query(ctx context.Context, sql string, args []any) ([]Row, error)
	Exec(ctx context.Context, sql string, args []any) (Result, error)
	// Prepare returns sql with args substituted and escaped, for display.
	Prepare(sql string, args []any) (string, error)
}

func (b *Builder) driver() (Driver, error) {
	if b.env.Driver == nil {
		return nil, ErrNoDriver
	}
	return b.env.Driver, nil
}

// ToSQL compiles the SELECT without executing it.
func (b *Builder) ToSQL() (string, []any, error) {
	return NewCompiler().Select(b)
}

// ToSQLInsert compiles an INSERT of values.
func (b *Builder) ToSQLInsert(values Values) (string, []any, error) {
	return NewCompiler().Insert(b, values)
}

// ToSQLUpdate compiles an UPDATE of values restricted by the where clauses.
func (b *Builder) ToSQLUpdate(values Values) (string, []any, error) {
	return NewCompiler().Update(b, values)
}

// ToSQLDelete compiles a DELETE restricted by the joins and where clauses.
func (b *Builder) ToSQLDelete() (string, []any, error) {
	return NewCompiler().Delete(b)
}

// Prepared compiles the SELECT and asks the driver to substitute the
// bindings.
func (b *Builder) Prepared() (string, error) {
	d, err := b.driver()
	if err != nil {
		return "", err
	}
	sql, args, err := b.ToSQL()
	if err != nil {
		return "", err
	}
	return d.Prepare(sql, args)
}

// Get runs the SELECT and loads any relations registered with With.
func (b *Builder) Get(ctx context.Context) ([]Row, error) {
	d, err := b.driver()
	if err != nil {
		return nil, err
	}
	sql, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := d.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", b.table, err)
	}
	if len(rows) > 0 && len(b.relations) > 0 {
		if b.env.Loader == nil {
			return nil, fmt.Errorf("eager load %s: no relation loader configured", b.name)
		}
		if err := b.env.Loader.Load(ctx, b.name, rows, b.relations); err != nil {
			return nil, fmt.Errorf("eager load %s: %w", b.name, err)
		}
	}
	return rows, nil
}

// First limits the query to one row and returns it, or nil when there is
// no row.
func (b *Builder) First(ctx context.Context) (Row, error) {
	rows, err := b.Limit(1).Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Pagination bounds
const (
	DefaultMaxPerPage = 100
	DefaultMinPerPage = 10
)

// Pagination fetches one page. bounds are optional max and min page sizes
// (default 100 and 10). A perPage outside them falls back to the maximum;
// a page below 1 becomes 1.
func (b *Builder) Pagination(ctx context.Context, perPage, page int, bounds ...int) ([]Row, error) {
	b.paginate(perPage, page, bounds...)
	return b.Get(ctx)
}

func (b *Builder) paginate(perPage, page int, bounds ...int) {
	maxPer, minPer := DefaultMaxPerPage, DefaultMinPerPage
	if len(bounds) > 0 {
		maxPer = bounds[0]
	}
	if len(bounds) > 1 {
		minPer = bounds[1]
	}
	if perPage < minPer || perPage > maxPer {
		perPage = maxPer
	}
	if page <= 0 {
		page = 1
	}
	b.Limit(perPage).Offset((page - 1) * perPage)
}

// Insert inserts one row and returns the number of affected rows.
func (b *Builder) Insert(ctx context.Context, values Values) (int64, error) {
	res, err := b.exec(ctx, "insert", func() (string, []any, error) { return b.ToSQLInsert(values) })
	return res.RowsAffected, err
}

// InsertGetID inserts one row and returns its generated id.
func (b *Builder) InsertGetID(ctx context.Context, values Values) (int64, error) {
	res, err := b.exec(ctx, "insert", func() (string, []any, error) { return b.ToSQLInsert(values) })
	return res.LastInsertID, err
}

// Update updates the matching rows and returns how many changed.
func (b *Builder) Update(ctx context.Context, values Values) (int64, error) {
	res, err := b.exec(ctx, "update", func() (string, []any, error) { return b.ToSQLUpdate(values) })
	return res.RowsAffected, err
}

// Delete deletes the matching rows and returns how many were removed.
func (b *Builder) Delete(ctx context.Context) (int64, error) {
	res, err := b.exec(ctx, "delete", b.ToSQLDelete)
	return res.RowsAffected, err
}

func (b *Builder) exec(ctx context.Context, verb string, compile func() (string, []any, error)) (Result, error) {
	d, err := b.driver()
	if err != nil {
		return Result{}, err
	}
	sql, args, err := compile()
	if err != nil {
		return Result{}, err
	}
	res, err := d.Exec(ctx, sql, args)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", verb, b.table, err)
	}
	return res, nil
}
