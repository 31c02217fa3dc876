package entity

import "errors"

// Sentinel errors for the board's failure taxonomy. Use cases wrap these with
// context; handlers unwrap them with errors.Is to pick the HTTP status.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
