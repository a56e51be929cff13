package todo

import "errors"

// Programming errors. The Container panics with these; they are never
// returned for user input.
var (
	ErrNotInitialized = errors.New("todo: container used before initialization")
	ErrDuplicateID    = errors.New("todo: generated id already in use")
)

// ErrEmptyFilter is returned by CompileFilter for a blank expression.
var ErrEmptyFilter = errors.New("todo: empty filter expression")
