// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package resolver

import (
	"sort"
	"sync"

	"github.com/MKhiriev/go-care-sync/models"
)

// Conflicts is the registry of items suspended under the manual strategy.
// Suspended items stay out of drains until an external actor settles them.
// All methods are safe for concurrent use.
type Conflicts struct {
	mu      sync.RWMutex
	pending map[string]models.PendingConflict
}

// NewConflicts constructs an empty registry.
func NewConflicts() *Conflicts {
	return &Conflicts{pending: make(map[string]models.PendingConflict)}
}

// Add registers a suspended conflict, replacing any previous entry for the
// same item.
func (c *Conflicts) Add(pc models.PendingConflict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[pc.ItemID] = pc
}

// Get returns the pending conflict for an item id.
func (c *Conflicts) Get(itemID string) (models.PendingConflict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pc, ok := c.pending[itemID]
	return pc, ok
}

// Remove drops the pending conflict for an item id and returns it.
func (c *Conflicts) Remove(itemID string) (models.PendingConflict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pc, ok := c.pending[itemID]
	if ok {
		delete(c.pending, itemID)
	}
	return pc, ok
}

// Contains reports whether the item is currently suspended.
func (c *Conflicts) Contains(itemID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.pending[itemID]
	return ok
}

// List returns all pending conflicts ordered by detection time.
func (c *Conflicts) List() []models.PendingConflict {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.PendingConflict, 0, len(c.pending))
	for _, pc := range c.pending {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DetectedAt.Before(out[j].DetectedAt)
	})
	return out
}

// Count returns the number of suspended items.
func (c *Conflicts) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}
