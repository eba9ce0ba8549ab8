// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package retry tracks transient-failure attempts per queued item and decides
// when an item has exhausted its budget and must be quarantined.
//
// Quarantine is the engine's termination guarantee: a persistently failing
// item stops consuming drain passes after a bounded number of attempts and
// waits for explicit operator recovery instead.
package retry

import (
	"sync"

	"github.com/MKhiriev/go-care-sync/models"
)

// DefaultMaxAttempts is the attempt budget used when the configured value is
// not positive.
const DefaultMaxAttempts = 3

// Ledger counts transient failures per item id. All methods are safe for
// concurrent use.
type Ledger struct {
	maxAttempts int

	mu          sync.RWMutex
	attempts    map[string]int
	quarantined map[string]struct{}
}

// NewLedger constructs a ledger with the given attempt budget. A non-positive
// budget falls back to [DefaultMaxAttempts].
func NewLedger(maxAttempts int) *Ledger {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Ledger{
		maxAttempts: maxAttempts,
		attempts:    make(map[string]int),
		quarantined: make(map[string]struct{}),
	}
}

// Seed marks previously quarantined items as quarantined again, typically
// from a durable-store listing at startup.
func (l *Ledger) Seed(items []models.SyncItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range items {
		l.quarantined[item.ID] = struct{}{}
		if item.RetryCount > 0 {
			l.attempts[item.ID] = item.RetryCount
		}
	}
}

// Record registers one transient failure for the item and returns the new
// attempt count. When the count reaches the budget the item is moved to
// quarantine and quarantine=true is returned; the caller is expected to
// persist the quarantine flag and stop retrying the item.
func (l *Ledger) Record(id string) (attempts int, quarantine bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts[id]++
	attempts = l.attempts[id]
	if attempts >= l.maxAttempts {
		l.quarantined[id] = struct{}{}
		return attempts, true
	}
	return attempts, false
}

// Reset clears the attempt count for an item, typically after a successful
// send or an accepted conflict resolution.
func (l *Ledger) Reset(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, id)
	delete(l.quarantined, id)
}

// Quarantine moves an item to quarantine immediately, bypassing the attempt
// budget. Used for permanent rejections.
func (l *Ledger) Quarantine(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.quarantined[id] = struct{}{}
}

// Requeue releases an item from quarantine and clears its attempt count so
// it re-enters drains with a fresh budget.
func (l *Ledger) Requeue(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.quarantined, id)
	delete(l.attempts, id)
}

// IsQuarantined reports whether the item is currently quarantined.
func (l *Ledger) IsQuarantined(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.quarantined[id]
	return ok
}

// Attempts returns the current attempt count for an item.
func (l *Ledger) Attempts(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.attempts[id]
}

// QuarantinedCount returns the number of quarantined items.
func (l *Ledger) QuarantinedCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.quarantined)
}
