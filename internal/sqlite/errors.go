package sqlite

import "errors"

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
)
