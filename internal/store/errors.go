package store

import "errors"

// ErrNotFound is returned when a record does not exist, or exists but is
// owned by a different user. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert collides with the unique
// email constraint on users.
var ErrDuplicateEmail = errors.New("email already registered")
