package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// brokenRepo имитирует полностью недоступный бэкенд
type brokenRepo struct {
	err error
}

func (b *brokenRepo) Put(context.Context, models.SyncItem) error { return b.err }
func (b *brokenRepo) Get(context.Context, string) (models.SyncItem, error) {
	return models.SyncItem{}, b.err
}
func (b *brokenRepo) GetAllPending(context.Context) ([]models.SyncItem, error)  { return nil, b.err }
func (b *brokenRepo) GetQuarantined(context.Context) ([]models.SyncItem, error) { return nil, b.err }
func (b *brokenRepo) MarkSynced(context.Context, string, time.Time) error       { return b.err }
func (b *brokenRepo) MarkQuarantined(context.Context, string) error             { return b.err }
func (b *brokenRepo) SetRetryCount(context.Context, string, int) error          { return b.err }
func (b *brokenRepo) Requeue(context.Context, string) error                     { return b.err }
func (b *brokenRepo) Delete(context.Context, string) error                      { return b.err }

func newFailover(primary, degraded SyncItemRepository) SyncItemRepository {
	return NewFailoverSyncItemRepository(primary, degraded, logger.NewLogger("test"))
}

func TestFailover_PutPrefersPrimary(t *testing.T) {
	primary := NewMemorySyncItemRepository(10)
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(primary, degraded)
	ctx := context.Background()

	item := fallbackItem("item-1", time.Now())
	if err := repo.Put(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := primary.Get(ctx, "item-1"); err != nil {
		t.Errorf("expected item in primary: %v", err)
	}
	if _, err := degraded.Get(ctx, "item-1"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("item must not be duplicated into fallback, got %v", err)
	}
}

func TestFailover_PutDegradesWhenPrimaryDown(t *testing.T) {
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(&brokenRepo{err: errors.New("connection refused")}, degraded)
	ctx := context.Background()

	item := fallbackItem("item-1", time.Now())
	if err := repo.Put(ctx, item); err != nil {
		t.Fatalf("expected degraded put to succeed, got %v", err)
	}

	if _, err := degraded.Get(ctx, "item-1"); err != nil {
		t.Errorf("expected item in fallback: %v", err)
	}
}

func TestFailover_PutBothDown(t *testing.T) {
	repo := newFailover(
		&brokenRepo{err: errors.New("connection refused")},
		&brokenRepo{err: errors.New("capacity exceeded")},
	)

	err := repo.Put(context.Background(), fallbackItem("item-1", time.Now()))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestFailover_GetFallsThrough(t *testing.T) {
	primary := NewMemorySyncItemRepository(10)
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(primary, degraded)
	ctx := context.Background()

	_ = degraded.Put(ctx, fallbackItem("item-1", time.Now()))

	got, err := repo.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "item-1" {
		t.Errorf("expected item-1, got %s", got.ID)
	}

	if _, err = repo.Get(ctx, "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestFailover_GetAllPendingMergesBackends(t *testing.T) {
	primary := NewMemorySyncItemRepository(10)
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(primary, degraded)
	ctx := context.Background()

	base := time.Now()
	_ = primary.Put(ctx, fallbackItem("from-primary", base.Add(time.Second)))
	_ = degraded.Put(ctx, fallbackItem("from-fallback", base))

	items, err := repo.GetAllPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected merged listing of 2 items, got %d", len(items))
	}
	// объединённый список отсортирован по времени захвата
	if items[0].ID != "from-fallback" || items[1].ID != "from-primary" {
		t.Errorf("unexpected ordering: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestFailover_GetAllPendingPrimaryDown(t *testing.T) {
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(&brokenRepo{err: errors.New("connection refused")}, degraded)
	ctx := context.Background()

	_ = degraded.Put(ctx, fallbackItem("item-1", time.Now()))

	items, err := repo.GetAllPending(ctx)
	if err != nil {
		t.Fatalf("expected fallback listing, got %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-1" {
		t.Fatalf("unexpected listing: %+v", items)
	}
}

func TestFailover_GetAllPendingBothDown(t *testing.T) {
	repo := newFailover(
		&brokenRepo{err: errors.New("connection refused")},
		&brokenRepo{err: errors.New("broken")},
	)

	_, err := repo.GetAllPending(context.Background())
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestFailover_MutationFindsItemInFallback(t *testing.T) {
	primary := NewMemorySyncItemRepository(10)
	degraded := NewMemorySyncItemRepository(10)
	repo := newFailover(primary, degraded)
	ctx := context.Background()

	_ = degraded.Put(ctx, fallbackItem("item-1", time.Now()))

	if err := repo.MarkQuarantined(ctx, "item-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := degraded.Get(ctx, "item-1")
	if !got.Quarantined {
		t.Error("expected fallback item to be quarantined")
	}
}

func TestFailover_MutationMissingEverywhere(t *testing.T) {
	repo := newFailover(NewMemorySyncItemRepository(10), NewMemorySyncItemRepository(10))

	err := repo.MarkSynced(context.Background(), "missing", time.Now())
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestFailover_MutationPrimaryErrorFallbackMissing(t *testing.T) {
	repo := newFailover(
		&brokenRepo{err: errors.New("connection refused")},
		NewMemorySyncItemRepository(10),
	)

	err := repo.Delete(context.Background(), "item-1")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
