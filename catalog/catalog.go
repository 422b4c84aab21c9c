// Package catalog selects key columns from the primary keys of a live
// database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/shibukawa/insert2merge/keyselect"
	"golang.org/x/text/cases"
)

// Catalog is a keyselect.Selector that answers with the primary key of the
// target table. Tables without a usable primary key are passed to the
// fallback selector. Lookups are cached for the life of the Catalog.
type Catalog struct {
	db       *sql.DB
	dialect  Dialect
	fallback keyselect.Selector

	mu   sync.Mutex
	keys map[tableName][]string
}

// New creates a Catalog on an open database. fallback may be nil.
func New(db *sql.DB, dialect Dialect, fallback keyselect.Selector) *Catalog {
	return &Catalog{
		db:       db,
		dialect:  dialect,
		fallback: fallback,
		keys:     map[tableName][]string{},
	}
}

// Open connects to databaseURL and creates a Catalog on it. The caller
// closes it with Close.
func Open(ctx context.Context, databaseURL string, fallback keyselect.Selector) (*Catalog, error) {
	db, dialect, err := Connect(ctx, databaseURL, DefaultPoolSettings)
	if err != nil {
		return nil, err
	}

	return New(db, dialect, fallback), nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}

	return c.db.Close()
}

// Dialect returns the dialect of the database.
func (c *Catalog) Dialect() Dialect {
	return c.dialect
}

// PrimaryKey returns the primary key columns of table, empty when it has
// none.
func (c *Catalog) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	name := parseTableName(table, c.dialect)

	c.mu.Lock()
	defer c.mu.Unlock()

	if keys, ok := c.keys[name]; ok {
		return keys, nil
	}

	keys, err := readPrimaryKey(ctx, c.db, c.dialect, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPrimaryKeyLookup, table, err)
	}

	c.keys[name] = keys

	return keys, nil
}

// SelectKeys selects the primary key when every key column is part of the
// statement.
func (c *Catalog) SelectKeys(ctx context.Context, table string, columns []string) (keyselect.Selection, error) {
	keys, err := c.PrimaryKey(ctx, table)
	if err != nil {
		return keyselect.Selection{}, err
	}

	if len(keys) > 0 && covers(columns, keys) {
		return keyselect.Selection{Keys: slices.Clone(keys)}, nil
	}

	if c.fallback == nil {
		return keyselect.Selection{}, keyselect.ErrNoSelection
	}

	return c.fallback.SelectKeys(ctx, table, columns)
}

func covers(columns, keys []string) bool {
	fold := cases.Fold()

	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[fold.String(column)] = true
	}

	for _, key := range keys {
		if !present[fold.String(key)] {
			return false
		}
	}

	return true
}
