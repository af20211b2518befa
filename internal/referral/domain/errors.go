package domain

import "errors"

var (
	ErrMissingTable      = errors.New("missing_table")
	ErrUnsupportedSource = errors.New("unsupported_source")
	ErrInvalidConfig     = errors.New("invalid_config")
)
