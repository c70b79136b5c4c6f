package memberrepo

import "errors"

var (
	// ErrNotFound indicates the requested member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrEmailAlreadyBound indicates a member already exists with the provided
	// email address (email doubles as the login identity).
	ErrEmailAlreadyBound = errors.New("member email already bound")

	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("member already exists")
)
