// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package status exposes the engine's read-only state: an on-demand snapshot
// computed from the live queue, ledger, and worker, plus a small HTTP facade
// for external consumers (the device UI and operators).
package status

import (
	"time"

	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/models"
)

// WorkerState is the slice of the drain worker the reporter reads.
type WorkerState interface {
	Draining() bool
	LastResult() *models.DrainResult
	LastSyncTime() *time.Time
}

// Reporter computes status snapshots. It holds no mutable state of its own;
// every call reads the live components.
type Reporter struct {
	queue     *queue.Queue
	ledger    *retry.Ledger
	conflicts *resolver.Conflicts
	worker    WorkerState
}

// NewReporter constructs a reporter over the engine's live components.
func NewReporter(q *queue.Queue, ledger *retry.Ledger, conflicts *resolver.Conflicts, worker WorkerState) *Reporter {
	return &Reporter{
		queue:     q,
		ledger:    ledger,
		conflicts: conflicts,
		worker:    worker,
	}
}

// Snapshot assembles the current status projection. The sync status is
// "syncing" while a drain is in flight, "error" when the most recent drain
// left failures behind, and "idle" otherwise.
func (r *Reporter) Snapshot() models.StatusSnapshot {
	snapshot := models.StatusSnapshot{
		PendingCount:     r.queue.Len(),
		QuarantinedCount: r.ledger.QuarantinedCount(),
		SyncStatus:       models.SyncStatusIdle,
		LastSyncTime:     r.worker.LastSyncTime(),
		PendingConflicts: r.conflicts.List(),
	}

	switch {
	case r.worker.Draining():
		snapshot.SyncStatus = models.SyncStatusSyncing
	case r.lastDrainFailed():
		snapshot.SyncStatus = models.SyncStatusError
	}
	return snapshot
}

func (r *Reporter) lastDrainFailed() bool {
	result := r.worker.LastResult()
	return result != nil && (result.Failed > 0 || result.Quarantined > 0)
}
