package service

import "errors"

var (
	// ErrInvalidDataProvided signals a malformed producer or resolution
	// request.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrConflictNotFound signals a resolution request for an item that is
	// not suspended.
	ErrConflictNotFound = errors.New("no pending conflict for item")

	// ErrNotQuarantined signals a requeue request for an item that is not
	// quarantined.
	ErrNotQuarantined = errors.New("item is not quarantined")
)
