package requestrepo

import "errors"

var (
	// ErrNotFound indicates the requested request record does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrAlreadyExists indicates a request already exists with the provided ID.
	ErrAlreadyExists = errors.New("request already exists")
)
