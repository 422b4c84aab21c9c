package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNothingConverted  = errors.New("no INSERT statement was converted")
	ErrWriteNeedsFile    = errors.New("--write requires an input file")
	ErrWriteAndOutput    = errors.New("--write and --output are mutually exclusive")
	ErrConfigExists      = errors.New("configuration file already exists (use --force to overwrite)")
	ErrInputFileNotExist = errors.New("input file does not exist")
)
