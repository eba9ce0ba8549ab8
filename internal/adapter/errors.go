package adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

var (
	// ErrUnauthorized signals a rejected or expired bearer token. The caller
	// re-authenticates and treats the affected item as transient.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrTransient marks failures that may succeed on a later attempt:
	// transport errors, timeouts, throttling, and backend 5xx responses.
	ErrTransient = errors.New("transient send failure")

	// ErrPermanent marks records the backend rejected as malformed.
	// Retrying cannot succeed; the item is quarantined immediately.
	ErrPermanent = errors.New("permanent send failure")
)

// ConflictError is returned by Send when the backend holds diverged state for
// the record. It carries the server's current payload and timestamp so the
// resolver can decide without an extra round trip.
type ConflictError struct {
	ServerPayload   models.Payload
	ServerTimestamp time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record conflicts with server state from %s", e.ServerTimestamp.Format(time.RFC3339))
}
