package users

import "errors"

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("users: not found")

	// ErrInvalidCredentials is returned for any failed authentication,
	// deliberately not distinguishing unknown addresses from wrong
	// passwords.
	ErrInvalidCredentials = errors.New("users: invalid credentials")

	// ErrEmailTaken is returned when registering or changing to an
	// address already in use.
	ErrEmailTaken = errors.New("users: email already registered")

	// ErrInvalidEmail is returned when an address is empty after
	// sanitization.
	ErrInvalidEmail = errors.New("users: invalid email address")

	// ErrWeakPassword is returned for passwords under the length floor.
	ErrWeakPassword = errors.New("users: password too short")

	// ErrPasswordMismatch is returned when a password confirmation does
	// not match.
	ErrPasswordMismatch = errors.New("users: password confirmation mismatch")
)
