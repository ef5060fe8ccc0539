package dburl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Supported database dialects
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

var (
	ErrUnknownDialect = errors.New("unknown database dialect")
	ErrInvalidURL     = errors.New("invalid database URL")
)

// Target is a database URL resolved to what database/sql needs to open it.
type Target struct {
	Dialect string
	// Driver is the database/sql driver name registered for Dialect.
	Driver string
	DSN    string
}

// InferDialectFromDBUrl returns the dialect ("postgres", "mysql", or "sqlite")
// based on the URL scheme.
func InferDialectFromDBUrl(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, scheme)
	}
}

// Parse resolves dbURL to a driver name and DSN.
//
//	postgres://user:pw@host:5432/db?sslmode=disable -> pgx, URL unchanged
//	mysql://user:pw@host:3306/db?parseTime=true     -> mysql, user:pw@tcp(host:3306)/db?parseTime=true
//	sqlite:///abs/path.db, sqlite:rel.db            -> sqlite, file path
func Parse(dbURL string) (Target, error) {
	dialect, err := InferDialectFromDBUrl(dbURL)
	if err != nil {
		return Target{}, err
	}

	switch dialect {
	case DialectPostgres:
		return Target{Dialect: dialect, Driver: "pgx", DSN: dbURL}, nil
	case DialectMySQL:
		dsn, err := MySQLURLToDSN(dbURL)
		if err != nil {
			return Target{}, err
		}
		return Target{Dialect: dialect, Driver: "mysql", DSN: dsn}, nil
	default:
		return Target{Dialect: dialect, Driver: "sqlite", DSN: SQLiteURLToPath(dbURL)}, nil
	}
}

// MySQLURLToDSN converts a mysql:// URL to a go-sql-driver DSN.
// Query parameters are passed through as driver parameters.
func MySQLURLToDSN(mysqlURL string) (string, error) {
	u, err := url.Parse(mysqlURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidURL, mysqlURL)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

// SQLiteURLToPath extracts the file path from a SQLite URL.
// ":memory:" and plain paths are returned unchanged.
func SQLiteURLToPath(sqliteURL string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if rest, ok := strings.CutPrefix(sqliteURL, prefix); ok {
			return rest
		}
	}
	return sqliteURL
}

// ParseDatabaseName extracts the database name from a URL.
// Returns an empty string if no database name is present.
func ParseDatabaseName(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
