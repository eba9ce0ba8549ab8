package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// failoverSyncItemRepository routes operations to the primary backend first
// and degrades to the bounded fallback when the primary fails. Producers only
// ever see ErrStorageUnavailable, and only when both backends reject a write.
type failoverSyncItemRepository struct {
	primary  SyncItemRepository
	degraded SyncItemRepository
	logger   *logger.Logger
}

// NewFailoverSyncItemRepository wires a primary repository with its degraded
// fallback.
func NewFailoverSyncItemRepository(primary, degraded SyncItemRepository, log *logger.Logger) SyncItemRepository {
	return &failoverSyncItemRepository{
		primary:  primary,
		degraded: degraded,
		logger:   log,
	}
}

func (f *failoverSyncItemRepository) Put(ctx context.Context, item models.SyncItem) error {
	err := f.primary.Put(ctx, item)
	if err == nil {
		return nil
	}

	f.logger.Warn().
		Str("func", "failoverSyncItemRepository.Put").
		Str("item_id", item.ID).
		Bool("connection_error", isConnectionError(err)).
		Err(err).
		Msg("primary store rejected put, degrading to bounded fallback")

	if fallbackErr := f.degraded.Put(ctx, item); fallbackErr != nil {
		return fmt.Errorf("%w: primary: %s, fallback: %s",
			ErrStorageUnavailable, err, fallbackErr)
	}
	return nil
}

func (f *failoverSyncItemRepository) Get(ctx context.Context, id string) (models.SyncItem, error) {
	item, err := f.primary.Get(ctx, id)
	if err == nil {
		return item, nil
	}
	return f.degraded.Get(ctx, id)
}

func (f *failoverSyncItemRepository) GetAllPending(ctx context.Context) ([]models.SyncItem, error) {
	return f.merge(ctx, "GetAllPending",
		f.primary.GetAllPending, f.degraded.GetAllPending)
}

func (f *failoverSyncItemRepository) GetQuarantined(ctx context.Context) ([]models.SyncItem, error) {
	return f.merge(ctx, "GetQuarantined",
		f.primary.GetQuarantined, f.degraded.GetQuarantined)
}

// merge combines primary and fallback listings: an item lives in exactly one
// backend, so concatenation plus a re-sort by timestamp is sufficient.
func (f *failoverSyncItemRepository) merge(
	ctx context.Context,
	caller string,
	primary, degraded func(context.Context) ([]models.SyncItem, error),
) ([]models.SyncItem, error) {
	primaryItems, primaryErr := primary(ctx)
	degradedItems, degradedErr := degraded(ctx)

	if primaryErr != nil && degradedErr != nil {
		return nil, fmt.Errorf("%w: primary: %s, fallback: %s",
			ErrStorageUnavailable, primaryErr, degradedErr)
	}
	if primaryErr != nil {
		f.logger.Warn().
			Str("func", "failoverSyncItemRepository."+caller).
			Err(primaryErr).
			Msg("primary store listing failed, serving fallback only")
		return degradedItems, nil
	}

	items := append(primaryItems, degradedItems...)
	sortByTimestamp(items)
	return items, nil
}

func (f *failoverSyncItemRepository) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	return f.apply(ctx, id,
		func(r SyncItemRepository) error { return r.MarkSynced(ctx, id, syncedAt) })
}

func (f *failoverSyncItemRepository) MarkQuarantined(ctx context.Context, id string) error {
	return f.apply(ctx, id,
		func(r SyncItemRepository) error { return r.MarkQuarantined(ctx, id) })
}

func (f *failoverSyncItemRepository) SetRetryCount(ctx context.Context, id string, retryCount int) error {
	return f.apply(ctx, id,
		func(r SyncItemRepository) error { return r.SetRetryCount(ctx, id, retryCount) })
}

func (f *failoverSyncItemRepository) Requeue(ctx context.Context, id string) error {
	return f.apply(ctx, id,
		func(r SyncItemRepository) error { return r.Requeue(ctx, id) })
}

func (f *failoverSyncItemRepository) Delete(ctx context.Context, id string) error {
	return f.apply(ctx, id,
		func(r SyncItemRepository) error { return r.Delete(ctx, id) })
}

// apply runs a per-item mutation against whichever backend holds the item.
func (f *failoverSyncItemRepository) apply(ctx context.Context, id string, op func(SyncItemRepository) error) error {
	err := op(f.primary)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrItemNotFound) {
		f.logger.Warn().
			Str("func", "failoverSyncItemRepository.apply").
			Str("item_id", id).
			Err(err).
			Msg("primary store mutation failed, trying fallback")
	}

	fallbackErr := op(f.degraded)
	if fallbackErr == nil {
		return nil
	}
	if errors.Is(err, ErrItemNotFound) && errors.Is(fallbackErr, ErrItemNotFound) {
		return ErrItemNotFound
	}
	return fmt.Errorf("%w: primary: %s, fallback: %s",
		ErrStorageUnavailable, err, fallbackErr)
}
