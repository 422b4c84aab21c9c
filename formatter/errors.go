package formatter

import "errors"

// ErrFormat is returned when a statement cannot be formatted.
var ErrFormat = errors.New("failed to format SQL")
