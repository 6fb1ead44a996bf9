package usecases

import "errors"

// Sentinel errors handlers use to pick a status code.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalid            = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
