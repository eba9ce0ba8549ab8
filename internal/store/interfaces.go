// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the durable side of the sync engine: queued items
// must survive process restarts, so every mutation is persisted before it is
// acknowledged to the caller.
//
// Two primary backends are provided — SQLite for on-device deployments and
// PostgreSQL for gateway deployments — selected by the DSN scheme. A bounded
// in-memory repository serves as the degraded fallback when the primary is
// unavailable; [NewStorages] wires the failover pair together.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SyncItemRepository is the durable store contract for queued records.
//
// Put must be durable before it returns: after a successful Put and a process
// restart, GetAllPending includes the item unchanged until MarkSynced,
// MarkQuarantined, or Delete is applied to it.
type SyncItemRepository interface {
	// Put inserts or replaces the item by its ID.
	Put(ctx context.Context, item models.SyncItem) error

	// Get returns the item with the given ID, or ErrItemNotFound.
	Get(ctx context.Context, id string) (models.SyncItem, error)

	// GetAllPending returns all items that are neither synced nor
	// quarantined, ordered by creation time ascending.
	GetAllPending(ctx context.Context) ([]models.SyncItem, error)

	// GetQuarantined returns all quarantined items, ordered by creation
	// time ascending.
	GetQuarantined(ctx context.Context) ([]models.SyncItem, error)

	// MarkSynced flags the item as accepted by the remote authority.
	// Synced items are retained for audit but excluded from
	// GetAllPending.
	MarkSynced(ctx context.Context, id string, syncedAt time.Time) error

	// MarkQuarantined removes the item from the pending set after its
	// retry budget is exhausted or a permanent rejection.
	MarkQuarantined(ctx context.Context, id string) error

	// SetRetryCount records the item's failed-attempt counter.
	SetRetryCount(ctx context.Context, id string, retryCount int) error

	// Requeue clears the quarantined flag and retry counter so the item
	// re-enters the pending set. Explicit recovery operation; never
	// called automatically.
	Requeue(ctx context.Context, id string) error

	// Delete removes the item entirely (used when a newer item coalesces
	// an unsent one away).
	Delete(ctx context.Context, id string) error
}
