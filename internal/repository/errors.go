package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("repository: email already registered")
	// ErrOwnerExists indicates the single owner slot is already taken.
	ErrOwnerExists = errors.New("repository: owner already exists")
)
