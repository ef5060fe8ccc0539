package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Register the database/sql drivers Open can dispatch to.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/shipq/fluentsql/dburl"
)

// Open connects to the database at dbURL and verifies the connection.
// Supported schemes are postgres://, mysql:// and sqlite:.
func Open(ctx context.Context, dbURL string, logger *slog.Logger) (*DB, error) {
	target, err := dburl.Parse(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target.Dialect, err)
	}
	if target.Dialect == dburl.DialectSQLite {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", target.Dialect, err)
	}

	return New(db, target.Dialect, logger), nil
}
