package service

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid")
	ErrMissingField   = errors.New("missing field")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrSourceCreation = errors.New("feed source creation failed")
)

const emptyFeedMessage = "An error has occurred, which probably means the feed is down. Try again later."

// MissingFieldError is returned when a required request field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " missing."
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// FetchError carries the user-facing message of a failed feed fetch.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFeedFetch
}
