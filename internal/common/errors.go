// Package common defines shared sentinel errors used across userkeeper
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors raised while constructing a user.
	ErrBlankFirstName    = errors.New("first name must not be blank")
	ErrAmbiguousIdentity = errors.New("email and phone must not both be set")
	ErrNoIdentity        = errors.New("email or phone must not be null or blank")
	ErrBadFullName       = errors.New("full name must contain only first name and last name")
	ErrBadRecord         = errors.New("malformed user record")

	// Registry-level errors.
	ErrInvalidPhone  = errors.New("enter a valid phone number starting with a + and containing 11 digits")
	ErrAlreadyExists = errors.New("already exists")

	// Credential errors.
	ErrPasswordMismatch = errors.New("the entered password does not match the current password")

	// Login lookup miss and password mismatch both collapse to this value
	// so callers cannot tell an unknown login from a wrong password.
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
