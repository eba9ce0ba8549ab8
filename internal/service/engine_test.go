// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/mock"
	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/models"
)

// stubTrigger фиксирует запросы немедленного слива
type stubTrigger struct {
	fullCalls int
}

func (s *stubTrigger) TriggerFull() { s.fullCalls++ }

type engineEnv struct {
	engine    *Engine
	queue     *queue.Queue
	repo      store.SyncItemRepository
	ledger    *retry.Ledger
	remote    *mock.MockRemoteAuthority
	conflicts *resolver.Conflicts
	trigger   *stubTrigger
}

func newEngineEnv(t *testing.T, ctrl *gomock.Controller) *engineEnv {
	t.Helper()
	log := logger.NewLogger("test")

	q := queue.New(log)
	repo := store.NewMemorySyncItemRepository(100)
	ledger := retry.NewLedger(3)
	remote := mock.NewMockRemoteAuthority(ctrl)
	conflicts := resolver.NewConflicts()
	res := resolver.NewResolver(models.StrategyClientWins, remote, conflicts, log)
	trigger := &stubTrigger{}

	e := NewEngine(repo, q, ledger, res, conflicts, nil, trigger, log)
	return &engineEnv{
		engine:    e,
		queue:     q,
		repo:      repo,
		ledger:    ledger,
		remote:    remote,
		conflicts: conflicts,
		trigger:   trigger,
	}
}

// ── Enqueue ──────────────────────────────────────────────────────────────────

func TestEnqueue_PersistsBeforeQueueing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	id, err := env.engine.Enqueue(ctx, models.DataTypeMood, models.Payload{"mood": "calm"}, "s1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, 1, env.queue.Len())

	stored, err := env.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DataTypeMood, stored.DataType)
	assert.Equal(t, "s1", stored.SessionID)
	assert.False(t, stored.Synced)
}

func TestEnqueue_RapidRewritesCoalesceToNewest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	// серия быстрых перезаписей одного слота схлопывается в последний снимок
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		stamp := ts.Add(time.Duration(i) * time.Second)
		env.engine.now = func() time.Time { return stamp }

		id, err := env.engine.Enqueue(ctx, models.DataTypeMood, models.Payload{"rev": i}, "s1")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.Equal(t, 1, env.queue.Len())
	held, ok := env.queue.Get(ids[2])
	require.True(t, ok, "slot must hold the newest snapshot")
	assert.Equal(t, 2, held.Payload["rev"])

	// вытеснённые снимки удалены из надёжного хранилища
	for _, id := range ids[:2] {
		_, err := env.repo.Get(ctx, id)
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	}
}

func TestEnqueue_StaleCaptureDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	newerTS := time.Date(2026, 8, 1, 12, 0, 10, 0, time.UTC)
	env.engine.now = func() time.Time { return newerTS }
	heldID, err := env.engine.Enqueue(ctx, models.DataTypeMood, models.Payload{"rev": "new"}, "s1")
	require.NoError(t, err)

	// производитель с отставшими часами: снимок старше удерживаемого
	env.engine.now = func() time.Time { return newerTS.Add(-time.Minute) }
	gotID, err := env.engine.Enqueue(ctx, models.DataTypeMood, models.Payload{"rev": "stale"}, "s1")
	require.NoError(t, err)

	assert.Equal(t, heldID, gotID, "discarded capture reports the holding item's id")
	assert.Equal(t, 1, env.queue.Len())

	held, ok := env.queue.Get(heldID)
	require.True(t, ok)
	assert.Equal(t, "new", held.Payload["rev"])
}

func TestEnqueue_ValidatesInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	_, err := env.engine.Enqueue(ctx, "", models.Payload{"a": 1}, "s1")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = env.engine.Enqueue(ctx, models.DataTypeMood, models.Payload{"a": 1}, "  ")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = env.engine.Enqueue(ctx, models.DataTypeMood, nil, "s1")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestEnqueue_StorageUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	repo := mock.NewMockSyncItemRepository(ctrl)
	env.engine.repo = repo

	repo.EXPECT().Put(gomock.Any(), gomock.Any()).
		Return(store.ErrStorageUnavailable)

	_, err := env.engine.Enqueue(context.Background(), models.DataTypeMood, models.Payload{"a": 1}, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Equal(t, 0, env.queue.Len(), "capture must not be queued when persistence failed")
}

// ── Bootstrap ────────────────────────────────────────────────────────────────

func TestBootstrap_RestoresQueueAndLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()
	base := time.Now()

	pending := models.SyncItem{ID: "p1", DataType: models.DataTypeMood, SessionID: "s1",
		Payload: models.Payload{"a": 1}, Timestamp: base}
	quarantined := models.SyncItem{ID: "q1", DataType: models.DataTypeSDOH, SessionID: "s2",
		Payload: models.Payload{"b": 2}, Timestamp: base, Quarantined: true, RetryCount: 3}

	require.NoError(t, env.repo.Put(ctx, pending))
	require.NoError(t, env.repo.Put(ctx, quarantined))

	require.NoError(t, env.engine.Bootstrap(ctx))

	assert.Equal(t, 1, env.queue.Len())
	_, ok := env.queue.Get("p1")
	assert.True(t, ok)
	assert.True(t, env.ledger.IsQuarantined("q1"))
	assert.Equal(t, 1, env.ledger.QuarantinedCount())
}

// ── Resolve ──────────────────────────────────────────────────────────────────

func suspendedItem(t *testing.T, env *engineEnv) models.SyncItem {
	t.Helper()
	ctx := context.Background()

	item := models.SyncItem{
		ID:        "item-1",
		DataType:  models.DataTypeMood,
		SessionID: "s1",
		Payload:   models.Payload{"mood": "calm"},
		Timestamp: time.Now(),
	}
	require.NoError(t, env.repo.Put(ctx, item))
	env.queue.Enqueue(item)
	env.conflicts.Add(models.PendingConflict{
		ItemID:        item.ID,
		SessionID:     item.SessionID,
		DataType:      item.DataType,
		LocalPayload:  item.Payload,
		ServerPayload: models.Payload{"mood": "tense"},
		DetectedAt:    time.Now(),
	})
	return item
}

func TestResolve_UseRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()
	item := suspendedItem(t, env)

	require.NoError(t, env.engine.Resolve(ctx, item.ID, models.Resolution{Decision: models.DecisionUseRemote}))

	assert.False(t, env.conflicts.Contains(item.ID))
	assert.Equal(t, 0, env.queue.Len())

	stored, err := env.repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced, "local capture is closed out in favour of the remote state")
}

func TestResolve_UseLocal_PushesOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()
	item := suspendedItem(t, env)

	env.remote.EXPECT().ForceOverride(gomock.Any(), item).Return(nil)

	require.NoError(t, env.engine.Resolve(ctx, item.ID, models.Resolution{Decision: models.DecisionUseLocal}))

	assert.False(t, env.conflicts.Contains(item.ID))
	stored, err := env.repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced)
}

func TestResolve_UseLocal_PushFailureKeepsConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()
	item := suspendedItem(t, env)

	env.remote.EXPECT().ForceOverride(gomock.Any(), item).
		Return(adapter.ErrPermanent)

	err := env.engine.Resolve(ctx, item.ID, models.Resolution{Decision: models.DecisionUseLocal})
	require.Error(t, err)

	assert.True(t, env.conflicts.Contains(item.ID), "unacknowledged decision leaves the conflict suspended")
	assert.Equal(t, 1, env.queue.Len())
}

func TestResolve_MergeResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()
	item := suspendedItem(t, env)

	merged := models.Payload{"mood": "settled"}
	env.remote.EXPECT().ForceOverride(gomock.Any(), gomock.Cond(func(x any) bool {
		pushed, ok := x.(models.SyncItem)
		return ok && pushed.Payload["mood"] == "settled"
	})).Return(nil)

	require.NoError(t, env.engine.Resolve(ctx, item.ID, models.Resolution{
		Decision:      models.DecisionMergeResult,
		MergedPayload: merged,
	}))

	stored, err := env.repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced)
	assert.Equal(t, "settled", stored.Payload["mood"], "merged payload must be persisted")
}

func TestResolve_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	err := env.engine.Resolve(ctx, "item-1", models.Resolution{Decision: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	err = env.engine.Resolve(ctx, "unknown", models.Resolution{Decision: models.DecisionUseRemote})
	assert.ErrorIs(t, err, ErrConflictNotFound)

	item := suspendedItem(t, env)
	err = env.engine.Resolve(ctx, item.ID, models.Resolution{Decision: models.DecisionMergeResult})
	assert.ErrorIs(t, err, ErrInvalidDataProvided, "merge decision without payload is rejected")
}

// ── RequeueQuarantined ───────────────────────────────────────────────────────

func TestRequeueQuarantined_RestoresItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	item := models.SyncItem{
		ID:          "item-1",
		DataType:    models.DataTypeMood,
		SessionID:   "s1",
		Payload:     models.Payload{"mood": "calm"},
		Timestamp:   time.Now().Add(-time.Hour),
		Quarantined: true,
		RetryCount:  3,
	}
	require.NoError(t, env.repo.Put(ctx, item))
	env.ledger.Seed([]models.SyncItem{item})

	require.NoError(t, env.engine.RequeueQuarantined(ctx, "item-1"))

	assert.False(t, env.ledger.IsQuarantined("item-1"))
	assert.Equal(t, 1, env.queue.Len())
	assert.Equal(t, 1, env.trigger.fullCalls, "recovery requests a prompt drain")

	stored, err := env.repo.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, stored.Quarantined)
	assert.Equal(t, 0, stored.RetryCount)
}

func TestRequeueQuarantined_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newEngineEnv(t, ctrl)
	ctx := context.Background()

	err := env.engine.RequeueQuarantined(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrItemNotFound))

	item := models.SyncItem{ID: "item-1", DataType: models.DataTypeMood, SessionID: "s1",
		Payload: models.Payload{"a": 1}, Timestamp: time.Now()}
	require.NoError(t, env.repo.Put(ctx, item))

	err = env.engine.RequeueQuarantined(ctx, "item-1")
	assert.ErrorIs(t, err, ErrNotQuarantined)
}
