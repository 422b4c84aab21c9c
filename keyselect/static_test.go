package keyselect

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseKeyList(t *testing.T) {
	assert.Equal(t, []string{"id", "code"}, ParseKeyList(" id, code ,"))
	assert.Equal(t, []string(nil), ParseKeyList(""))
}

func TestStatic(t *testing.T) {
	selection, err := Static{Keys: []string{"id"}, ApplyToAll: true}.SelectKeys(context.Background(), "emp", []string{"id"})
	assert.NoError(t, err)
	assert.Equal(t, Selection{Keys: []string{"id"}, ApplyToAll: true}, selection)

	_, err = Static{}.SelectKeys(context.Background(), "emp", []string{"id"})
	assert.True(t, errors.Is(err, ErrNoSelection))
}

func TestTableMap(t *testing.T) {
	fallback := Static{Keys: []string{"fallback"}}
	tableMap := TableMap{
		Keys: map[string][]string{
			"emp":       {"id"},
			"hr.dept":   {"code"},
			"`Orders`":  {"order_id"},
			"empty_one": {},
		},
		Fallback: fallback,
	}

	tests := []struct {
		name     string
		table    string
		expected []string
	}{
		{name: "exact", table: "emp", expected: []string{"id"}},
		{name: "case insensitive", table: "EMP", expected: []string{"id"}},
		{name: "qualified lookup", table: "hr.dept", expected: []string{"code"}},
		{name: "unqualified name of qualified table", table: "hr.emp", expected: []string{"id"}},
		{name: "quotes ignored", table: `"ORDERS"`, expected: []string{"order_id"}},
		{name: "empty entry falls back", table: "empty_one", expected: []string{"fallback"}},
		{name: "unknown table falls back", table: "other", expected: []string{"fallback"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, err := tableMap.SelectKeys(context.Background(), tt.table, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, selection.Keys)
		})
	}

	_, err := TableMap{}.SelectKeys(context.Background(), "emp", nil)
	assert.True(t, errors.Is(err, ErrNoSelection))
}
