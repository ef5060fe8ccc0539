// Package sqldb runs compiled query builders against database/sql.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shipq/fluentsql/query"
)

// Querier is the interface for executing queries.
// Both *sql.DB and *sql.Tx implement this interface.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time checks that *sql.DB and *sql.Tx implement Querier
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)

	_ query.Driver = (*DB)(nil)
)

// DB adapts a database/sql connection or transaction to query.Driver.
type DB struct {
	dialect string
	q       Querier
	// pool is nil inside a transaction.
	pool   *sql.DB
	logger *slog.Logger
}

// New wraps db for the given dialect (see the dburl Dialect constants).
// A nil logger discards statement logs.
func New(db *sql.DB, dialect string, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DB{dialect: dialect, q: db, pool: db, logger: logger}
}

// Dialect returns the dialect statements are rebound for.
func (d *DB) Dialect() string {
	return d.dialect
}

// Querier returns the underlying connection or transaction.
func (d *DB) Querier() Querier {
	return d.q
}

// Query runs a compiled SELECT and returns every row. []byte column values
// are returned as strings.
func (d *DB) Query(ctx context.Context, stmt string, args []any) ([]query.Row, error) {
	bound, err := d.rebind(stmt, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	id := uuid.NewString()
	rows, err := d.q.QueryContext(ctx, bound, args...)
	if err != nil {
		d.log(ctx, id, bound, args, start, err)
		return nil, err
	}
	defer rows.Close()

	out, err := scanRows(rows)
	d.log(ctx, id, bound, args, start, err, slog.Int("rows", len(out)))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Exec runs a compiled INSERT, UPDATE or DELETE. LastInsertID is left at
// zero when the driver does not report one.
func (d *DB) Exec(ctx context.Context, stmt string, args []any) (query.Result, error) {
	bound, err := d.rebind(stmt, args)
	if err != nil {
		return query.Result{}, err
	}

	start := time.Now()
	id := uuid.NewString()
	res, err := d.q.ExecContext(ctx, bound, args...)
	if err != nil {
		d.log(ctx, id, bound, args, start, err)
		return query.Result{}, err
	}

	var out query.Result
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		d.log(ctx, id, bound, args, start, err)
		return query.Result{}, fmt.Errorf("rows affected: %w", err)
	}
	if lastID, err := res.LastInsertId(); err == nil {
		out.LastInsertID = lastID
	}
	d.log(ctx, id, bound, args, start, nil, slog.Int64("affected", out.RowsAffected))
	return out, nil
}

// Prepare returns stmt with args substituted as SQL literals.
func (d *DB) Prepare(stmt string, args []any) (string, error) {
	return Interpolate(stmt, args)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. Calling WithTx on a DB that is
// already in a transaction runs fn in that transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *DB) error) (err error) {
	if d.pool == nil {
		return fn(d)
	}

	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit: %w", cErr)
		}
	}()

	return fn(&DB{dialect: d.dialect, q: tx, logger: d.logger})
}

// Close closes the underlying pool. It is a no-op inside a transaction.
func (d *DB) Close() error {
	if d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

func (d *DB) rebind(stmt string, args []any) (string, error) {
	bound, n := Rebind(d.dialect, stmt)
	if n != len(args) {
		return "", fmt.Errorf("%w: %d placeholders, %d arguments", ErrBindingMismatch, n, len(args))
	}
	return bound, nil
}

func (d *DB) log(ctx context.Context, id, stmt string, args []any, start time.Time, err error, extra ...slog.Attr) {
	attrs := append([]slog.Attr{
		slog.String("statement_id", id),
		slog.String("sql", stmt),
		slog.Int("args", len(args)),
		slog.Duration("elapsed", time.Since(start)),
	}, extra...)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		d.logger.LogAttrs(ctx, slog.LevelError, "statement failed", attrs...)
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelDebug, "statement", attrs...)
}

func scanRows(rows *sql.Rows) ([]query.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []query.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(query.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
