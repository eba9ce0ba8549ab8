package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// syncItemRepository is the SQL-backed implementation of
// [SyncItemRepository]. It executes all queued-record operations against the
// "sync_items" table using the embedded [*DB] connection; queries are built
// with squirrel so the same code serves the SQLite and PostgreSQL dialects.
type syncItemRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncItemRepository constructs a [SyncItemRepository] backed by the
// provided database connection and logger.
func NewSyncItemRepository(db *DB, logger *logger.Logger) SyncItemRepository {
	return &syncItemRepository{
		DB:     db,
		logger: logger,
	}
}

var syncItemColumns = []string{
	"id", "data_type", "session_id", "payload",
	"created_at", "synced", "quarantined", "retry_count", "synced_at",
}

const syncItemUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
		data_type   = excluded.data_type,
		session_id  = excluded.session_id,
		payload     = excluded.payload,
		created_at  = excluded.created_at,
		synced      = excluded.synced,
		quarantined = excluded.quarantined,
		retry_count = excluded.retry_count,
		synced_at   = excluded.synced_at`

func (r *syncItemRepository) Put(ctx context.Context, item models.SyncItem) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Insert("sync_items").
		Columns(syncItemColumns...).
		Values(
			item.ID,
			item.DataType,
			item.SessionID,
			item.Payload,
			item.Timestamp,
			item.Synced,
			item.Quarantined,
			item.RetryCount,
			item.SyncedAt,
		).
		Suffix(syncItemUpsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncItemRepository.Put").
			Str("item_id", item.ID).
			Str("data_type", item.DataType).
			Msg("failed to execute upsert for sync item")
		return fmt.Errorf("failed to save sync item (id=%s): %w", item.ID, err)
	}

	return nil
}

func (r *syncItemRepository) Get(ctx context.Context, id string) (models.SyncItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(syncItemColumns...).
		From("sync_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SyncItem{}, fmt.Errorf("failed to build select query: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	item, scanErr := scanSyncItem(row.Scan)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.SyncItem{}, ErrItemNotFound
		}
		log.Err(scanErr).
			Str("func", "syncItemRepository.Get").
			Str("item_id", id).
			Msg("failed to scan sync item row")
		return models.SyncItem{}, fmt.Errorf("failed to scan sync item row: %w", scanErr)
	}

	return item, nil
}

func (r *syncItemRepository) GetAllPending(ctx context.Context) ([]models.SyncItem, error) {
	return r.selectItems(ctx, "syncItemRepository.GetAllPending",
		sq.Eq{"synced": false, "quarantined": false})
}

func (r *syncItemRepository) GetQuarantined(ctx context.Context) ([]models.SyncItem, error) {
	return r.selectItems(ctx, "syncItemRepository.GetQuarantined",
		sq.Eq{"quarantined": true})
}

func (r *syncItemRepository) selectItems(ctx context.Context, caller string, where sq.Eq) ([]models.SyncItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(syncItemColumns...).
		From("sync_items").
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Msg("failed to execute query for sync items")
		return nil, fmt.Errorf("failed to query sync items: %w", err)
	}
	defer rows.Close()

	var items []models.SyncItem

	for rows.Next() {
		item, scanErr := scanSyncItem(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", caller).
				Msg("failed to scan sync item row")
			return nil, fmt.Errorf("failed to scan sync item row: %w", scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", caller).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating sync item rows: %w", rowsErr)
	}

	return items, nil
}

func (r *syncItemRepository) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	return r.updateItem(ctx, "syncItemRepository.MarkSynced", id, map[string]any{
		"synced":    true,
		"synced_at": syncedAt,
	})
}

func (r *syncItemRepository) MarkQuarantined(ctx context.Context, id string) error {
	return r.updateItem(ctx, "syncItemRepository.MarkQuarantined", id, map[string]any{
		"quarantined": true,
	})
}

func (r *syncItemRepository) SetRetryCount(ctx context.Context, id string, retryCount int) error {
	return r.updateItem(ctx, "syncItemRepository.SetRetryCount", id, map[string]any{
		"retry_count": retryCount,
	})
}

func (r *syncItemRepository) Requeue(ctx context.Context, id string) error {
	return r.updateItem(ctx, "syncItemRepository.Requeue", id, map[string]any{
		"quarantined": false,
		"retry_count": 0,
	})
}

func (r *syncItemRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Delete("sync_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncItemRepository.Delete").
			Str("item_id", id).
			Msg("failed to execute delete for sync item")
		return fmt.Errorf("failed to delete sync item (id=%s): %w", id, err)
	}

	return nil
}

func (r *syncItemRepository) updateItem(ctx context.Context, caller, id string, set map[string]any) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Update("sync_items").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Str("item_id", id).
			Msg("failed to execute update for sync item")
		return fmt.Errorf("failed to update sync item (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Str("item_id", id).
			Msg("failed to get rows affected after update")
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", caller).
			Str("item_id", id).
			Msg("no rows affected during update: record not found")
		return ErrItemNotFound
	}

	return nil
}

// scanSyncItem reads one sync_items row through the provided scan function.
// synced_at is nullable and converted to *time.Time.
func scanSyncItem(scan func(dest ...any) error) (models.SyncItem, error) {
	var item models.SyncItem
	var syncedAt sql.NullTime

	err := scan(
		&item.ID,
		&item.DataType,
		&item.SessionID,
		&item.Payload,
		&item.Timestamp,
		&item.Synced,
		&item.Quarantined,
		&item.RetryCount,
		&syncedAt,
	)
	if err != nil {
		return models.SyncItem{}, err
	}

	if syncedAt.Valid {
		t := syncedAt.Time
		item.SyncedAt = &t
	}

	return item, nil
}
