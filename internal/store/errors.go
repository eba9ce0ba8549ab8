package store

import "errors"

var (
	// ErrItemNotFound indicates the requested item is absent from the
	// repository.
	ErrItemNotFound = errors.New("sync item not found")

	// ErrStorageUnavailable indicates that both the primary backend and
	// the degraded fallback rejected the operation. This is the only
	// storage failure surfaced to producers.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
