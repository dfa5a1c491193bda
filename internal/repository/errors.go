package repository

import "errors"

var (
	// ErrNotFound is returned when a page capture or score does not exist.
	ErrNotFound = errors.New("not found")
)
