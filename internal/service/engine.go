// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service wires the storage, queue, ledger, resolver, and worker
// layers into the engine facade that producers and the status surface talk
// to.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

// StatusReporter computes the read-only engine snapshot. Implemented by the
// status package; injected so the facade can expose Snapshot without
// depending on the HTTP layer.
type StatusReporter interface {
	Snapshot() models.StatusSnapshot
}

// DrainTrigger lets the engine request an immediate drain pass after
// recovery operations. A full drain is used because a requeued item is
// usually older than the quick-drain age threshold.
type DrainTrigger interface {
	TriggerFull()
}

// Engine is the offline-first capture facade. Enqueue accepts a capture,
// persists it, and returns without touching the network; background drains
// deliver it later.
type Engine struct {
	repo      store.SyncItemRepository
	queue     *queue.Queue
	ledger    *retry.Ledger
	resolver  *resolver.Resolver
	conflicts *resolver.Conflicts
	reporter  StatusReporter
	trigger   DrainTrigger
	ids       *utils.UUIDGenerator
	logger    *logger.Logger

	now func() time.Time

	// mu serialises enqueues so the durable write and the queue commit for
	// one capture slot cannot interleave with a competing enqueue.
	mu sync.Mutex
}

// NewEngine constructs the engine facade.
func NewEngine(
	repo store.SyncItemRepository,
	q *queue.Queue,
	ledger *retry.Ledger,
	res *resolver.Resolver,
	conflicts *resolver.Conflicts,
	reporter StatusReporter,
	trigger DrainTrigger,
	log *logger.Logger,
) *Engine {
	log.Info().Msg("engine facade created")
	return &Engine{
		repo:      repo,
		queue:     q,
		ledger:    ledger,
		resolver:  res,
		conflicts: conflicts,
		reporter:  reporter,
		trigger:   trigger,
		ids:       utils.NewUUIDGenerator(),
		logger:    log,
		now:       time.Now,
	}
}

// Bootstrap restores in-memory state from the durable store: the queue is
// rebuilt from pending items and the retry ledger is seeded with quarantined
// ones. Called once at startup before the worker starts.
func (e *Engine) Bootstrap(ctx context.Context) error {
	pending, err := e.repo.GetAllPending(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap pending items: %w", err)
	}
	e.queue.Rebuild(pending)

	quarantined, err := e.repo.GetQuarantined(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap quarantined items: %w", err)
	}
	e.ledger.Seed(quarantined)

	e.logger.Info().
		Str("func", "Engine.Bootstrap").
		Int("pending", len(pending)).
		Int("quarantined", len(quarantined)).
		Msg("engine state restored from durable store")
	return nil
}

// Enqueue accepts one capture for eventual delivery and returns the id of
// the item now holding the capture slot. It never blocks on the network.
//
// The capture is persisted before it becomes visible to drains. When the
// slot already holds a newer snapshot the capture is discarded and the held
// item's id is returned; when the newcomer replaces an older snapshot the
// replaced item is removed from the durable store.
func (e *Engine) Enqueue(ctx context.Context, dataType string, payload models.Payload, sessionID string) (string, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(dataType) == "" || strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: data type and session id are required", ErrInvalidDataProvided)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidDataProvided)
	}

	item := models.SyncItem{
		ID:        e.ids.Generate(),
		DataType:  dataType,
		SessionID: sessionID,
		Payload:   payload.Clone(),
		Timestamp: e.now(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.repo.Put(ctx, item); err != nil {
		log.Err(err).
			Str("func", "Engine.Enqueue").
			Str("item_id", item.ID).
			Msg("failed to persist capture")
		return "", fmt.Errorf("persist capture: %w", err)
	}

	prev, accepted := e.queue.Enqueue(item)
	if !accepted {
		// слот занят более свежим снимком: новый отбрасывается
		if err := e.repo.Delete(ctx, item.ID); err != nil {
			log.Err(err).
				Str("func", "Engine.Enqueue").
				Str("item_id", item.ID).
				Msg("failed to remove discarded capture")
		}
		return prev.ID, nil
	}

	if prev.ID != "" {
		// вытеснённый старый снимок больше не нужен в хранилище
		if err := e.repo.Delete(ctx, prev.ID); err != nil {
			log.Err(err).
				Str("func", "Engine.Enqueue").
				Str("item_id", prev.ID).
				Msg("failed to remove replaced capture")
		}
	}

	log.Debug().
		Str("func", "Engine.Enqueue").
		Str("item_id", item.ID).
		Str("data_type", dataType).
		Str("session_id", sessionID).
		Msg("capture enqueued")
	return item.ID, nil
}

// Snapshot returns the current engine status projection.
func (e *Engine) Snapshot() models.StatusSnapshot {
	return e.reporter.Snapshot()
}

// Resolve applies an external terminal decision to a suspended conflict.
func (e *Engine) Resolve(ctx context.Context, itemID string, res models.Resolution) error {
	log := logger.FromContext(ctx)

	if err := res.Decision.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDataProvided, err)
	}
	if !e.conflicts.Contains(itemID) {
		return ErrConflictNotFound
	}

	item, ok := e.queue.Get(itemID)
	if !ok {
		// приостановленный элемент обязан оставаться в очереди
		e.conflicts.Remove(itemID)
		return ErrConflictNotFound
	}

	switch res.Decision {
	case models.DecisionUseRemote:
		// удалённое состояние принято, локальный снимок закрыт
		e.settle(ctx, itemID)
		return nil

	case models.DecisionMergeResult:
		if len(res.MergedPayload) == 0 {
			return fmt.Errorf("%w: merge decision requires a merged payload", ErrInvalidDataProvided)
		}
		item.Payload = res.MergedPayload.Clone()
		if err := e.repo.Put(ctx, item); err != nil {
			return fmt.Errorf("persist merged payload: %w", err)
		}
		fallthrough

	default: // use_local, or merge_result after the payload swap
		if err := e.resolver.Push(ctx, item); err != nil {
			log.Err(err).
				Str("func", "Engine.Resolve").
				Str("item_id", itemID).
				Str("decision", string(res.Decision)).
				Msg("override push failed, conflict stays suspended")
			return fmt.Errorf("apply decision: %w", err)
		}
		e.settle(ctx, itemID)
		return nil
	}
}

// RequeueQuarantined releases a quarantined item back into the pending queue
// with a fresh retry budget and requests a prompt drain.
func (e *Engine) RequeueQuarantined(ctx context.Context, itemID string) error {
	item, err := e.repo.Get(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load quarantined item: %w", err)
	}
	if !item.Quarantined {
		return ErrNotQuarantined
	}

	if err = e.repo.Requeue(ctx, itemID); err != nil {
		return fmt.Errorf("requeue item: %w", err)
	}
	e.ledger.Requeue(itemID)

	item.Quarantined = false
	item.RetryCount = 0
	e.queue.Enqueue(item)

	if e.trigger != nil {
		e.trigger.TriggerFull()
	}

	e.logger.Info().
		Str("func", "Engine.RequeueQuarantined").
		Str("item_id", itemID).
		Msg("item released from quarantine")
	return nil
}

// settle finalises a resolved item: durable flag first, then queue, ledger,
// and conflict-registry cleanup.
func (e *Engine) settle(ctx context.Context, itemID string) {
	if err := e.repo.MarkSynced(ctx, itemID, e.now()); err != nil {
		e.logger.Err(err).
			Str("func", "Engine.settle").
			Str("item_id", itemID).
			Msg("failed to mark resolved item synced")
	}
	e.queue.Remove(itemID)
	e.ledger.Reset(itemID)
	e.conflicts.Remove(itemID)
}
