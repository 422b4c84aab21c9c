package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const postgresPrimaryKeyQuery = `
	SELECT kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
		AND tc.table_name = kcu.table_name
	WHERE tc.constraint_type = 'PRIMARY KEY'
		AND tc.table_schema = COALESCE(NULLIF($1::text, ''), current_schema())
		AND tc.table_name = $2
	ORDER BY kcu.ordinal_position`

const mysqlPrimaryKeyQuery = `
	SELECT kcu.COLUMN_NAME
	FROM information_schema.TABLE_CONSTRAINTS tc
	JOIN information_schema.KEY_COLUMN_USAGE kcu
		ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
		AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		AND tc.TABLE_NAME = kcu.TABLE_NAME
	WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		AND tc.TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE())
		AND tc.TABLE_NAME = ?
	ORDER BY kcu.ORDINAL_POSITION`

// pk is the 1-based position in the key, 0 for other columns
const sqlitePrimaryKeyQuery = `
	SELECT name
	FROM pragma_table_info(?, ?)
	WHERE pk > 0
	ORDER BY pk`

// tableName is a table reference split into schema and table.
type tableName struct {
	schema string
	table  string
}

// parseTableName splits a possibly qualified and quoted table name as it
// appears in an INSERT statement. Unquoted PostgreSQL identifiers fold to
// lower case. Of a three part name the middle part is the schema.
func parseTableName(name string, dialect Dialect) tableName {
	parts := splitQualified(name)

	for i, part := range parts {
		parts[i] = identifier(part, dialect)
	}

	switch len(parts) {
	case 0:
		return tableName{}
	case 1:
		return tableName{table: parts[0]}
	default:
		return tableName{schema: parts[len(parts)-2], table: parts[len(parts)-1]}
	}
}

// splitQualified splits on dots outside of quoted identifiers.
func splitQualified(name string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
	)

	for _, char := range name {
		switch {
		case quote != 0:
			if char == quote {
				quote = 0
			}
		case char == '"' || char == '`':
			quote = char
		case char == '.':
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()

			continue
		}

		current.WriteRune(char)
	}

	return append(parts, strings.TrimSpace(current.String()))
}

func identifier(part string, dialect Dialect) string {
	if len(part) >= 2 {
		first, last := part[0], part[len(part)-1]
		if (first == '"' || first == '`') && first == last {
			quote := string(first)
			return strings.ReplaceAll(part[1:len(part)-1], quote+quote, quote)
		}
	}

	if dialect == PostgreSQL {
		return strings.ToLower(part)
	}

	return part
}

// readPrimaryKey returns the primary key columns of a table in key order.
// A table without a primary key, or one that does not exist, has none.
func readPrimaryKey(ctx context.Context, db *sql.DB, dialect Dialect, name tableName) ([]string, error) {
	var (
		query string
		args  []any
	)

	switch dialect {
	case PostgreSQL:
		query = postgresPrimaryKeyQuery
		args = []any{name.schema, name.table}
	case MySQL:
		query = mysqlPrimaryKeyQuery
		args = []any{name.schema, name.table}
	case SQLite:
		schema := name.schema
		if schema == "" {
			schema = "main"
		}

		query = sqlitePrimaryKeyQuery
		args = []any{name.table, schema}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dialect)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string

	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, err
		}

		columns = append(columns, column)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}
