package user

import "errors"

var (
	// ErrDuplicateEmail is returned when storing a user whose email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUserNotFound is returned when updating a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
)
