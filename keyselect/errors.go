package keyselect

import "errors"

// Sentinel errors for key selection
var (
	// ErrNoSelection is returned when the user cancels or selects no key column.
	ErrNoSelection = errors.New("no key columns selected")
	// ErrUnknownKeyColumn is returned when a selected key is not a column of the statement.
	ErrUnknownKeyColumn = errors.New("key column not found in statement")
)
