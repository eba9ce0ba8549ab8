package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

// memorySyncItemRepository is the degraded fallback store used when the
// primary backend is unavailable. It keeps at most capacity items in process
// memory, evicting the oldest item when full.
//
// The bound is a deliberate trade: an offline device with a broken primary
// store keeps the freshest captures and silently sheds the oldest, instead of
// refusing new data outright. Contents do not survive a process restart.
type memorySyncItemRepository struct {
	capacity int

	mu    sync.RWMutex
	items map[string]models.SyncItem
	order []string // item ids in insertion order, oldest first
}

// NewMemorySyncItemRepository constructs the bounded in-memory fallback.
// A non-positive capacity defaults to 100 items.
func NewMemorySyncItemRepository(capacity int) SyncItemRepository {
	if capacity <= 0 {
		capacity = 100
	}
	return &memorySyncItemRepository{
		capacity: capacity,
		items:    make(map[string]models.SyncItem, capacity),
	}
}

func (m *memorySyncItemRepository) Put(_ context.Context, item models.SyncItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[item.ID]; !exists {
		if len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.items, oldest)
		}
		m.order = append(m.order, item.ID)
	}
	m.items[item.ID] = item

	return nil
}

func (m *memorySyncItemRepository) Get(_ context.Context, id string) (models.SyncItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return models.SyncItem{}, ErrItemNotFound
	}
	return item, nil
}

func (m *memorySyncItemRepository) GetAllPending(_ context.Context) ([]models.SyncItem, error) {
	return m.filter(func(item models.SyncItem) bool {
		return !item.Synced && !item.Quarantined
	}), nil
}

func (m *memorySyncItemRepository) GetQuarantined(_ context.Context) ([]models.SyncItem, error) {
	return m.filter(func(item models.SyncItem) bool {
		return item.Quarantined
	}), nil
}

func (m *memorySyncItemRepository) MarkSynced(_ context.Context, id string, syncedAt time.Time) error {
	return m.update(id, func(item *models.SyncItem) {
		item.Synced = true
		at := syncedAt
		item.SyncedAt = &at
	})
}

func (m *memorySyncItemRepository) MarkQuarantined(_ context.Context, id string) error {
	return m.update(id, func(item *models.SyncItem) {
		item.Quarantined = true
	})
}

func (m *memorySyncItemRepository) SetRetryCount(_ context.Context, id string, retryCount int) error {
	return m.update(id, func(item *models.SyncItem) {
		item.RetryCount = retryCount
	})
}

func (m *memorySyncItemRepository) Requeue(_ context.Context, id string) error {
	return m.update(id, func(item *models.SyncItem) {
		item.Quarantined = false
		item.RetryCount = 0
	})
}

func (m *memorySyncItemRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	for i, orderedID := range m.order {
		if orderedID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memorySyncItemRepository) filter(keep func(models.SyncItem) bool) []models.SyncItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.SyncItem
	for _, item := range m.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (m *memorySyncItemRepository) update(id string, apply func(*models.SyncItem)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return ErrItemNotFound
	}
	apply(&item)
	m.items[id] = item
	return nil
}
