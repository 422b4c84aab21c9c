package keyselect

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
)

// Selection is the set of key columns chosen for one statement.
type Selection struct {
	// Keys are the columns used in the ON condition, in column order.
	Keys []string
	// ApplyToAll reuses the selection for the following statements of the run.
	ApplyToAll bool
}

// Selector chooses the key columns of a statement.
type Selector interface {
	SelectKeys(ctx context.Context, table string, columns []string) (Selection, error)
}

// Func adapts an ordinary function to the Selector interface.
type Func func(ctx context.Context, table string, columns []string) (Selection, error)

// SelectKeys calls f.
func (f Func) SelectKeys(ctx context.Context, table string, columns []string) (Selection, error) {
	return f(ctx, table, columns)
}

// fold returns the caseless form of an identifier.
func fold(s string) string {
	return cases.Fold().String(s)
}

// resolveKeys maps keys onto columns case-insensitively and returns them in
// column order with the column spelling.
func resolveKeys(keys, columns []string) ([]string, error) {
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[fold(key)] = false
	}

	resolved := make([]string, 0, len(keys))

	for _, column := range columns {
		folded := fold(column)
		if _, ok := wanted[folded]; ok {
			wanted[folded] = true

			resolved = append(resolved, column)
		}
	}

	for _, key := range keys {
		if !wanted[fold(key)] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKeyColumn, key)
		}
	}

	return resolved, nil
}
