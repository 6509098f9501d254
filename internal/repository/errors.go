package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")
