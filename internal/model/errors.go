package model

import "errors"

// Shared error kinds. Handlers map these to status codes with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInterval = errors.New("invalid interval: end must be after start")
	ErrAuthFailed      = errors.New("authentication failed")
)
