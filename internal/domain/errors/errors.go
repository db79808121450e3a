package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrBackingStore       = errors.New("backing store failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
