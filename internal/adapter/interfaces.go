// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the remote collection backend.
//
// The primary abstraction is [RemoteAuthority], which decouples the drain and
// resolution logic from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPRemoteAuthority]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrTransient] for 5xx, [ErrPermanent] for 400/422).
// A 409 response maps to [*ConflictError], which carries the server's current
// state for the diverged record.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_authority_mock.go -package=mock

// RemoteAuthority defines transport-agnostic communication with the
// collection backend. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to the
// sentinel values defined in this package.
type RemoteAuthority interface {
	// SignIn authenticates the collection device and stores the returned
	// bearer token for subsequent requests. Implementations re-authenticate
	// proactively when the stored token is near expiry, so callers normally
	// invoke SignIn once at startup.
	SignIn(ctx context.Context) error

	// Send delivers one queued record to the backend. On acceptance it
	// returns the backend's acknowledgement. Failures are classified:
	// [*ConflictError] when the backend holds diverged state for the record,
	// [ErrPermanent] when the record is malformed and retrying is pointless,
	// [ErrTransient] for everything that may succeed later.
	Send(ctx context.Context, item models.SyncItem) (models.ServerRecord, error)

	// ForceOverride delivers a record through the override path, instructing
	// the backend to accept the client state even if it holds a newer
	// version. Used by the client-wins and merge resolution strategies.
	ForceOverride(ctx context.Context, item models.SyncItem) error
}
