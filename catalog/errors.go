package catalog

import "errors"

// Connection errors
var (
	ErrEmptyDatabaseURL    = errors.New("database URL cannot be empty")
	ErrInvalidDatabaseURL  = errors.New("invalid database URL")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	ErrConnectionFailed    = errors.New("failed to connect to database")
)

// Lookup errors
var (
	ErrPrimaryKeyLookup = errors.New("failed to read primary key")
)
