// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package worker runs the drain loop that moves queued records to the remote
// authority.
//
// Two timers drive the loop: a full drain walks every pending item, a quick
// drain sends a small batch of recently captured items so fresh data reaches
// the backend without waiting for the next full pass. A connectivity
// transition to online triggers an immediate full drain. At most one drain is
// in flight at any time; triggers arriving mid-drain are dropped rather than
// queued.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/connectivity"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/models"
)

// Default drain scheduling values, applied when the configuration leaves the
// corresponding field unset.
const (
	DefaultFullDrainInterval      = 5 * time.Minute
	DefaultQuickDrainInterval     = 30 * time.Second
	DefaultQuickDrainAgeThreshold = 5 * time.Minute
	DefaultQuickDrainBatchSize    = 3
	DefaultInterItemDelay         = 150 * time.Millisecond
)

// Worker owns the drain loop. Construct with New, then Start.
type Worker struct {
	queue     *queue.Queue
	store     store.SyncItemRepository
	ledger    *retry.Ledger
	remote    adapter.RemoteAuthority
	resolver  *resolver.Resolver
	conflicts *resolver.Conflicts
	monitor   connectivity.Monitor
	cfg       config.Sync
	logger    *logger.Logger

	draining atomic.Bool
	trigger  chan models.DrainKind

	now func() time.Time

	stateMu      sync.RWMutex
	lastResult   *models.DrainResult
	lastSyncTime *time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a worker. Zero scheduling values in cfg are replaced with
// the package defaults.
func New(
	q *queue.Queue,
	repo store.SyncItemRepository,
	ledger *retry.Ledger,
	remote adapter.RemoteAuthority,
	res *resolver.Resolver,
	conflicts *resolver.Conflicts,
	monitor connectivity.Monitor,
	cfg config.Sync,
	log *logger.Logger,
) *Worker {
	if cfg.FullDrainInterval <= 0 {
		cfg.FullDrainInterval = DefaultFullDrainInterval
	}
	if cfg.QuickDrainInterval <= 0 {
		cfg.QuickDrainInterval = DefaultQuickDrainInterval
	}
	if cfg.QuickDrainAgeThreshold <= 0 {
		cfg.QuickDrainAgeThreshold = DefaultQuickDrainAgeThreshold
	}
	if cfg.QuickDrainBatchSize <= 0 {
		cfg.QuickDrainBatchSize = DefaultQuickDrainBatchSize
	}
	if cfg.InterItemDelay <= 0 {
		cfg.InterItemDelay = DefaultInterItemDelay
	}

	return &Worker{
		queue:     q,
		store:     repo,
		ledger:    ledger,
		remote:    remote,
		resolver:  res,
		conflicts: conflicts,
		monitor:   monitor,
		cfg:       cfg,
		logger:    log,
		trigger:   make(chan models.DrainKind, 1),
		now:       time.Now,
	}
}

// Start stops any previous loop, subscribes to connectivity transitions, and
// launches the drain loop. The loop exits when ctx is cancelled or Stop is
// called.
func (w *Worker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	// переход offline→online немедленно запускает полный слив
	w.monitor.Subscribe(func(online bool) {
		if online {
			w.TriggerFull()
		}
	})

	go func() {
		defer w.wg.Done()

		full := time.NewTicker(w.cfg.FullDrainInterval)
		defer full.Stop()
		quick := time.NewTicker(w.cfg.QuickDrainInterval)
		defer quick.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-full.C:
				w.drain(loopCtx, models.DrainFull)
			case <-quick.C:
				w.drain(loopCtx, models.DrainQuick)
			case kind := <-w.trigger:
				w.drain(loopCtx, kind)
			}
		}
	}()
}

// Stop cancels the drain loop and blocks until it has exited. Safe to call
// when the worker is not running.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// TriggerFull requests an immediate full drain. The request is dropped when
// a drain trigger is already queued.
func (w *Worker) TriggerFull() { w.requestDrain(models.DrainFull) }

// TriggerQuick requests an immediate quick drain. The request is dropped
// when a drain trigger is already queued.
func (w *Worker) TriggerQuick() { w.requestDrain(models.DrainQuick) }

func (w *Worker) requestDrain(kind models.DrainKind) {
	select {
	case w.trigger <- kind:
	default:
	}
}

// Draining reports whether a drain pass is currently in flight.
func (w *Worker) Draining() bool {
	return w.draining.Load()
}

// LastResult returns the outcome of the most recent drain pass, or nil when
// no drain has run yet.
func (w *Worker) LastResult() *models.DrainResult {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()

	if w.lastResult == nil {
		return nil
	}
	result := *w.lastResult
	return &result
}

// LastSyncTime returns the time of the most recent successful delivery, or
// nil when nothing has been delivered yet.
func (w *Worker) LastSyncTime() *time.Time {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()

	if w.lastSyncTime == nil {
		return nil
	}
	t := *w.lastSyncTime
	return &t
}

// drain runs one pass over the queue. Only one pass may be in flight; a pass
// requested while another is running is dropped. The pass stops early when
// connectivity is lost or ctx is cancelled, leaving the remaining items
// untouched.
func (w *Worker) drain(ctx context.Context, kind models.DrainKind) {
	if !w.monitor.Online() {
		w.logger.Debug().
			Str("func", "Worker.drain").
			Str("kind", string(kind)).
			Msg("skipping drain: offline")
		return
	}
	if !w.draining.CompareAndSwap(false, true) {
		w.logger.Debug().
			Str("func", "Worker.drain").
			Str("kind", string(kind)).
			Msg("skipping drain: another drain in flight")
		return
	}
	defer w.draining.Store(false)

	var items []models.SyncItem
	switch kind {
	case models.DrainQuick:
		items = w.queue.PeekRecent(w.cfg.QuickDrainAgeThreshold, w.cfg.QuickDrainBatchSize, w.now())
	default:
		items = w.queue.Peek()
	}

	result := models.DrainResult{Kind: kind, StartedAt: w.now()}

	for i, snapshot := range items {
		if ctx.Err() != nil {
			break
		}
		// обрыв связи посреди слива: остаток очереди не трогаем
		if !w.monitor.Online() {
			w.logger.Info().
				Str("func", "Worker.drain").
				Str("kind", string(kind)).
				Int("remaining", len(items)-i).
				Msg("connectivity lost mid-drain, leaving remaining items queued")
			break
		}

		// снимок мог быть заменён более свежим после Peek
		item, ok := w.queue.Get(snapshot.ID)
		if !ok {
			continue
		}
		if w.conflicts.Contains(item.ID) || w.ledger.IsQuarantined(item.ID) {
			continue
		}

		result.Attempted++
		w.sendOne(ctx, item, &result)

		if i < len(items)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.InterItemDelay):
			}
		}
	}

	result.FinishedAt = w.now()

	w.stateMu.Lock()
	w.lastResult = &result
	w.stateMu.Unlock()

	w.logger.Info().
		Str("func", "Worker.drain").
		Str("kind", string(kind)).
		Int("attempted", result.Attempted).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("conflicts", result.Conflicts).
		Int("quarantined", result.Quarantined).
		Msg("drain finished")
}

// sendOne delivers a single item and applies its outcome.
func (w *Worker) sendOne(ctx context.Context, item models.SyncItem, result *models.DrainResult) {
	record, err := w.remote.Send(ctx, item)

	var conflict *adapter.ConflictError
	switch {
	case err == nil:
		w.settle(ctx, item, record.ReceivedAt)
		result.Sent++

	case errors.As(err, &conflict):
		result.Conflicts++
		w.handleConflict(ctx, item, conflict, result)

	case errors.Is(err, adapter.ErrPermanent):
		w.logger.Warn().
			Str("func", "Worker.sendOne").
			Str("item_id", item.ID).
			Err(err).
			Msg("record rejected permanently, quarantining")
		w.quarantine(ctx, item.ID)
		result.Quarantined++

	default:
		// транспортные сбои, 5xx и отказ авторизации — все временные
		w.handleTransient(ctx, item.ID, err, result)
	}
}

func (w *Worker) handleConflict(ctx context.Context, item models.SyncItem, conflict *adapter.ConflictError, result *models.DrainResult) {
	outcome, err := w.resolver.Resolve(ctx, item, conflict)
	switch outcome {
	case resolver.OutcomeResolved:
		w.settle(ctx, item, w.now())
		result.Sent++
	case resolver.OutcomeQuarantine:
		w.logger.Warn().
			Str("func", "Worker.handleConflict").
			Str("item_id", item.ID).
			Err(err).
			Msg("conflict resolution rejected permanently, quarantining")
		w.quarantine(ctx, item.ID)
		result.Quarantined++
	case resolver.OutcomeSuspended:
		// элемент ждёт внешнего решения, слив его больше не трогает
	default: // OutcomeTransient
		w.handleTransient(ctx, item.ID, err, result)
	}
}

// settle finalises a delivered item: durable flag first, then queue and
// ledger cleanup.
func (w *Worker) settle(ctx context.Context, item models.SyncItem, syncedAt time.Time) {
	if syncedAt.IsZero() {
		syncedAt = w.now()
	}
	if err := w.store.MarkSynced(ctx, item.ID, syncedAt); err != nil {
		w.logger.Err(err).
			Str("func", "Worker.settle").
			Str("item_id", item.ID).
			Msg("failed to mark item synced")
	}
	w.queue.Remove(item.ID)
	w.ledger.Reset(item.ID)

	w.stateMu.Lock()
	w.lastSyncTime = &syncedAt
	w.stateMu.Unlock()
}

func (w *Worker) quarantine(ctx context.Context, id string) {
	if err := w.store.MarkQuarantined(ctx, id); err != nil {
		w.logger.Err(err).
			Str("func", "Worker.quarantine").
			Str("item_id", id).
			Msg("failed to persist quarantine flag")
	}
	w.queue.Remove(id)
	w.ledger.Quarantine(id)
}

func (w *Worker) handleTransient(ctx context.Context, id string, cause error, result *models.DrainResult) {
	attempts, quarantine := w.ledger.Record(id)
	if err := w.store.SetRetryCount(ctx, id, attempts); err != nil {
		w.logger.Err(err).
			Str("func", "Worker.handleTransient").
			Str("item_id", id).
			Msg("failed to persist retry count")
	}

	if quarantine {
		w.logger.Warn().
			Str("func", "Worker.handleTransient").
			Str("item_id", id).
			Int("attempts", attempts).
			Err(cause).
			Msg("retry budget exhausted, quarantining")
		w.quarantine(ctx, id)
		result.Quarantined++
		return
	}

	w.logger.Warn().
		Str("func", "Worker.handleTransient").
		Str("item_id", id).
		Int("attempts", attempts).
		Err(cause).
		Msg("transient send failure, item stays queued")
	result.Failed++
}
