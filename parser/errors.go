package parser

import "errors"

// Sentinel errors for INSERT statement validation
var (
	// ErrColumnValueMismatch is returned when the column list and the value list differ in length.
	ErrColumnValueMismatch = errors.New("number of columns and values do not match")
	// ErrEmptyColumn is returned when the column list contains an empty name.
	ErrEmptyColumn = errors.New("empty column name")
	// ErrDuplicateColumn is returned when a column appears twice in one statement.
	ErrDuplicateColumn = errors.New("duplicate column name")
)
