package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a write the store already holds, such as a goal
	// transition recorded twice for the same turn.
	ErrConflict = errors.New("conflict")
)
