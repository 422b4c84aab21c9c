package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Dialect identifies the database behind a connection URL.
type Dialect string

const (
	PostgreSQL Dialect = "postgresql"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
)

// PoolSettings defines database connection pool configuration
type PoolSettings struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolSettings keeps a small pool; lookups run one at a time.
var DefaultPoolSettings = PoolSettings{
	MaxOpenConns:    2,
	MaxIdleConns:    2,
	ConnMaxLifetime: 5 * time.Minute,
}

// ParseDatabaseURL extracts the dialect from a connection URL.
func ParseDatabaseURL(databaseURL string) (Dialect, error) {
	u, err := parseURL(databaseURL)
	if err != nil {
		return "", err
	}

	return dialectOf(u)
}

func parseURL(databaseURL string) (*url.URL, error) {
	if databaseURL == "" {
		return nil, ErrEmptyDatabaseURL
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	return u, nil
}

func dialectOf(u *url.URL) (Dialect, error) {
	switch u.Scheme {
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, u.Scheme)
	}
}

// DriverSource converts a connection URL into the database/sql driver name
// and data source name of its dialect.
func DriverSource(databaseURL string) (string, string, error) {
	u, err := parseURL(databaseURL)
	if err != nil {
		return "", "", err
	}

	dialect, err := dialectOf(u)
	if err != nil {
		return "", "", err
	}

	switch dialect {
	case PostgreSQL:
		return postgresSource(u)
	case MySQL:
		return mysqlSource(u)
	default:
		return sqliteSource(u)
	}
}

// postgresSource keeps the URL form, which pgx understands, and disables
// SSL unless sslmode is given.
func postgresSource(u *url.URL) (string, string, error) {
	if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
		return "", "", fmt.Errorf("%w: host and database name are required", ErrInvalidDatabaseURL)
	}

	source := *u

	query := source.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}

	source.RawQuery = query.Encode()

	return "pgx", source.String(), nil
}

// mysqlSource builds a go-sql-driver/mysql DSN. Query parameters are passed
// through as driver parameters.
func mysqlSource(u *url.URL) (string, string, error) {
	if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
		return "", "", fmt.Errorf("%w: host and database name are required", ErrInvalidDatabaseURL)
	}

	config := mysql.NewConfig()
	config.Net = "tcp"
	config.DBName = strings.TrimPrefix(u.Path, "/")

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	config.Addr = net.JoinHostPort(u.Hostname(), port)

	if u.User != nil {
		config.User = u.User.Username()
		config.Passwd, _ = u.User.Password()
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}

		if config.Params == nil {
			config.Params = map[string]string{}
		}

		config.Params[key] = values[0]
	}

	return "mysql", config.FormatDSN(), nil
}

// sqliteSource accepts sqlite:///abs/path.db and sqlite://./rel/path.db.
func sqliteSource(u *url.URL) (string, string, error) {
	path := u.Host + u.Path
	if path == "" {
		path = u.Opaque
	}

	if path == "" {
		return "", "", fmt.Errorf("%w: database file is required", ErrInvalidDatabaseURL)
	}

	return "sqlite3", path, nil
}

// Connect opens the database behind databaseURL and checks that it answers.
func Connect(ctx context.Context, databaseURL string, pool PoolSettings) (*sql.DB, Dialect, error) {
	dialect, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	driver, source, err := DriverSource(databaseURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, dialect, nil
}
