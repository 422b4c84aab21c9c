package merge

import "errors"

// Sentinel errors for MERGE synthesis
var (
	// ErrInvalidOptions is returned when aliases or the commit interval are unusable.
	ErrInvalidOptions = errors.New("invalid merge options")
	// ErrNoKeyColumns is returned when a statement is synthesized without key columns.
	ErrNoKeyColumns = errors.New("no key columns")
)
