package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyAnalysis is returned when the video model produced no usable items.
	ErrEmptyAnalysis = errors.New("analysis response is empty")
)
