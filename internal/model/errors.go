package model

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("booking conflicts with an existing booking")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not permitted for this user")
)
