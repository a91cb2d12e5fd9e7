package models

import "errors"

// Common sentinel errors shared across repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoData       = errors.New("no data available")
	ErrInvalidInput = errors.New("invalid input")
)
