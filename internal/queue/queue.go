// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package queue holds the in-memory index of records awaiting upload.
//
// The queue coalesces by capture slot: at most one item exists per
// (sessionID, dataType) pair, and a newcomer replaces the held item only when
// its capture timestamp is strictly newer. The queue is an index over the
// durable store, not a store itself — its contents are rebuilt from the store
// on startup, and every accepted item is persisted before it is enqueued.
package queue

import (
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// Queue is the coalescing pending-upload index. All methods are safe for
// concurrent use.
type Queue struct {
	mu     sync.RWMutex
	byKey  map[models.QueueKey]string
	byID   map[string]models.SyncItem
	logger *logger.Logger
}

// New constructs an empty queue.
func New(log *logger.Logger) *Queue {
	return &Queue{
		byKey:  make(map[models.QueueKey]string),
		byID:   make(map[string]models.SyncItem),
		logger: log,
	}
}

// Rebuild resets the queue and repopulates it from a durable-store listing.
// The same coalescing rule applies, so duplicate capture slots collapse to
// the newest item regardless of listing order.
func (q *Queue) Rebuild(items []models.SyncItem) {
	q.mu.Lock()
	q.byKey = make(map[models.QueueKey]string, len(items))
	q.byID = make(map[string]models.SyncItem, len(items))
	q.mu.Unlock()

	for _, item := range items {
		q.Enqueue(item)
	}
}

// Enqueue offers an item to the queue. When the item's capture slot is free,
// or the item is strictly newer than the one currently held, the item is
// accepted and the previously held item (zero value if none) is returned
// together with accepted=true. Otherwise the held item is returned with
// accepted=false and the newcomer is discarded.
//
// Equal timestamps favour the holder: a replacement must be strictly newer.
func (q *Queue) Enqueue(item models.SyncItem) (prev models.SyncItem, accepted bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := item.Key()
	if heldID, ok := q.byKey[key]; ok {
		held := q.byID[heldID]
		if !item.Timestamp.After(held.Timestamp) {
			q.logger.Debug().
				Str("func", "Queue.Enqueue").
				Str("item_id", item.ID).
				Str("held_id", held.ID).
				Msg("discarding item: not strictly newer than held item")
			return held, false
		}
		delete(q.byID, heldID)
		prev = held
	}

	q.byKey[key] = item.ID
	q.byID[item.ID] = item
	return prev, true
}

// Peek returns all queued items ordered by capture timestamp ascending.
// The returned slice is a snapshot; mutating it does not affect the queue.
func (q *Queue) Peek() []models.SyncItem {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.snapshot(func(models.SyncItem) bool { return true }, 0)
}

// PeekRecent returns up to limit items captured within maxAge of now,
// ordered by capture timestamp ascending. It backs the frequent small-batch
// drain that keeps fresh captures from waiting for the next full pass.
func (q *Queue) PeekRecent(maxAge time.Duration, limit int, now time.Time) []models.SyncItem {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.snapshot(func(item models.SyncItem) bool {
		return now.Sub(item.Timestamp) <= maxAge
	}, limit)
}

// snapshot collects items passing keep, sorted by timestamp ascending,
// truncated to limit when limit > 0. Callers must hold q.mu.
func (q *Queue) snapshot(keep func(models.SyncItem) bool, limit int) []models.SyncItem {
	items := make([]models.SyncItem, 0, len(q.byID))
	for _, item := range q.byID {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Get returns the queued item with the given id.
func (q *Queue) Get(id string) (models.SyncItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	item, ok := q.byID[id]
	return item, ok
}

// Remove drops the item with the given id from the queue, freeing its
// capture slot. It reports whether the item was present.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		return false
	}
	delete(q.byID, id)
	if q.byKey[item.Key()] == id {
		delete(q.byKey, item.Key())
	}
	return true
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.byID)
}
