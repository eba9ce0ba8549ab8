// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/models"
)

// stubWorkerState — управляемое состояние воркера для репортёра
type stubWorkerState struct {
	draining     bool
	lastResult   *models.DrainResult
	lastSyncTime *time.Time
}

func (s *stubWorkerState) Draining() bool                  { return s.draining }
func (s *stubWorkerState) LastResult() *models.DrainResult { return s.lastResult }
func (s *stubWorkerState) LastSyncTime() *time.Time        { return s.lastSyncTime }

func newTestReporter(worker *stubWorkerState) (*Reporter, *queue.Queue, *retry.Ledger, *resolver.Conflicts) {
	q := queue.New(logger.NewLogger("test"))
	ledger := retry.NewLedger(3)
	conflicts := resolver.NewConflicts()
	return NewReporter(q, ledger, conflicts, worker), q, ledger, conflicts
}

func TestSnapshot_Idle(t *testing.T) {
	r, _, _, _ := newTestReporter(&stubWorkerState{})

	got := r.Snapshot()
	assert.Equal(t, models.SyncStatusIdle, got.SyncStatus)
	assert.Equal(t, 0, got.PendingCount)
	assert.Equal(t, 0, got.QuarantinedCount)
	assert.Nil(t, got.LastSyncTime)
	assert.Empty(t, got.PendingConflicts)
}

func TestSnapshot_CountsLiveState(t *testing.T) {
	lastSync := time.Now()
	worker := &stubWorkerState{lastSyncTime: &lastSync}
	r, q, ledger, conflicts := newTestReporter(worker)

	q.Enqueue(models.SyncItem{ID: "a", DataType: models.DataTypeMood, SessionID: "s1", Timestamp: time.Now()})
	q.Enqueue(models.SyncItem{ID: "b", DataType: models.DataTypeMood, SessionID: "s2", Timestamp: time.Now()})
	ledger.Quarantine("q1")
	conflicts.Add(models.PendingConflict{ItemID: "c1", DetectedAt: time.Now()})

	got := r.Snapshot()
	assert.Equal(t, 2, got.PendingCount)
	assert.Equal(t, 1, got.QuarantinedCount)
	require.Len(t, got.PendingConflicts, 1)
	assert.Equal(t, "c1", got.PendingConflicts[0].ItemID)
	require.NotNil(t, got.LastSyncTime)
	assert.True(t, got.LastSyncTime.Equal(lastSync))
}

func TestSnapshot_SyncingWhileDraining(t *testing.T) {
	r, _, _, _ := newTestReporter(&stubWorkerState{
		draining:   true,
		lastResult: &models.DrainResult{Failed: 2}, // идёт слив — статус syncing важнее
	})

	assert.Equal(t, models.SyncStatusSyncing, r.Snapshot().SyncStatus)
}

func TestSnapshot_ErrorAfterFailedDrain(t *testing.T) {
	r, _, _, _ := newTestReporter(&stubWorkerState{
		lastResult: &models.DrainResult{Attempted: 3, Sent: 1, Failed: 2},
	})

	assert.Equal(t, models.SyncStatusError, r.Snapshot().SyncStatus)
}

func TestSnapshot_IdleAfterCleanDrain(t *testing.T) {
	r, _, _, _ := newTestReporter(&stubWorkerState{
		lastResult: &models.DrainResult{Attempted: 3, Sent: 3},
	})

	assert.Equal(t, models.SyncStatusIdle, r.Snapshot().SyncStatus)
}
