package keyselect

import (
	"context"
	"slices"
	"strings"
)

// Static selects the same key columns for every statement.
type Static struct {
	Keys       []string
	ApplyToAll bool
}

// ParseKeyList splits a comma separated key list such as "id, code".
func ParseKeyList(list string) []string {
	var keys []string

	for key := range strings.SplitSeq(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}

// SelectKeys returns the fixed keys.
func (s Static) SelectKeys(ctx context.Context, table string, columns []string) (Selection, error) {
	if len(s.Keys) == 0 {
		return Selection{}, ErrNoSelection
	}

	return Selection{Keys: slices.Clone(s.Keys), ApplyToAll: s.ApplyToAll}, nil
}

// TableMap selects per-table key columns, typically from the configuration
// file. Tables are matched case-insensitively, by full name first and then
// by the unqualified name. Unknown tables are passed to Fallback.
type TableMap struct {
	Keys     map[string][]string
	Fallback Selector
}

// SelectKeys looks up the keys configured for table.
func (m TableMap) SelectKeys(ctx context.Context, table string, columns []string) (Selection, error) {
	if keys, ok := m.lookup(table); ok && len(keys) > 0 {
		return Selection{Keys: slices.Clone(keys)}, nil
	}

	if m.Fallback == nil {
		return Selection{}, ErrNoSelection
	}

	return m.Fallback.SelectKeys(ctx, table, columns)
}

func (m TableMap) lookup(table string) ([]string, bool) {
	candidates := []string{fold(unquote(table))}
	if i := strings.LastIndex(table, "."); i >= 0 {
		candidates = append(candidates, fold(unquote(table[i+1:])))
	}

	for _, candidate := range candidates {
		for name, keys := range m.Keys {
			if fold(unquote(name)) == candidate {
				return keys, true
			}
		}
	}

	return nil, false
}

// unquote strips identifier quotes from every part of a dotted name.
func unquote(name string) string {
	return strings.NewReplacer(`"`, "", "`", "").Replace(name)
}
