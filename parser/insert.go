package parser

import (
	"fmt"
	"iter"
	"strings"

	tok "github.com/shibukawa/insert2merge/tokenizer"
)

// Insert is a validated INSERT statement with its column and value lists
// split apart. Columns and Values always have the same length.
type Insert struct {
	Table    string
	Columns  []string
	Values   []string
	Position tok.Position
}

// ParseInsert splits and validates the column and value lists of raw.
// On error the returned Insert still carries the table and position.
func ParseInsert(raw RawInsert) (Insert, error) {
	ins := Insert{
		Table:    raw.Table,
		Position: raw.Position,
	}

	columns := strings.Split(raw.ColumnsText, ",")
	for i, column := range columns {
		columns[i] = strings.TrimSpace(column)
	}

	values := tok.SplitValues(raw.ValuesText)

	if len(columns) != len(values) {
		return ins, fmt.Errorf("%w: %d columns, %d values", ErrColumnValueMismatch, len(columns), len(values))
	}

	for i, column := range columns {
		if column == "" {
			return ins, fmt.Errorf("%w: position %d", ErrEmptyColumn, i+1)
		}

		for _, other := range columns[:i] {
			if strings.EqualFold(column, other) {
				return ins, fmt.Errorf("%w: %s", ErrDuplicateColumn, column)
			}
		}
	}

	ins.Columns = columns
	ins.Values = values

	return ins, nil
}

// ExtractInserts extracts and parses every INSERT statement in input.
// Statements that fail validation are yielded with their error so the caller
// can report them and move on.
func ExtractInserts(input string) iter.Seq2[Insert, error] {
	return func(yield func(Insert, error) bool) {
		for raw := range Extract(input) {
			if !yield(ParseInsert(raw)) {
				return
			}
		}
	}
}
