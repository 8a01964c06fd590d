package governance

import "errors"

var (
	// ErrAlreadyExists is returned when submitting a repo that is already
	// registered, in any approval state.
	ErrAlreadyExists = errors.New("project already exists")

	// ErrNotFound is returned when the target of a lookup or mutation does
	// not exist.
	ErrNotFound = errors.New("not found")
)
