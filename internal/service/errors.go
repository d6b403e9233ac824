package service

import "errors"

var (
	// ErrNotFound is returned for ids absent from the caller's owned scope,
	// including rows that exist but belong to another user.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidCredentials is returned on any login failure; it never
	// distinguishes a bad password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNameTaken is returned when renaming a tag or ingredient to a name
	// the owner already uses.
	ErrNameTaken = errors.New("name already in use")
)
