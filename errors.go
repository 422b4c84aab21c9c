package insert2merge

import (
	"errors"

	"github.com/shibukawa/insert2merge/merge"
)

// Common errors used throughout the insert2merge package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrInvalidOptions is returned by Convert when the merge options can't produce valid SQL.
	ErrInvalidOptions = merge.ErrInvalidOptions
)
