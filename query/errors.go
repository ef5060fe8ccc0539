package query

import "errors"

var (
	// ErrInvalidArgument reports a fluent call that could not be turned into
	// a valid clause or query setting.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoTable         = errors.New("no table selected")
	ErrNoDriver        = errors.New("no driver configured")
	ErrEmptyValues     = errors.New("no values given")
)
