package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// Storages groups the engine's durable repositories into a single value that
// can be passed around the service layer. Currently it holds only
// [SyncItemRepository]; additional repositories can be added here as the
// feature set grows.
type Storages struct {
	// Items is the failover-wrapped repository for queued sync records.
	Items SyncItemRepository
}

// NewStorages initialises the durable store layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens the primary backend selected by the DSN scheme — PostgreSQL for
//     "postgres://" URIs, an SQLite file otherwise — creating the SQLite
//     file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wraps the primary with the bounded in-memory fallback so enqueues keep
//     working while the primary is down.
//
// If the primary cannot be opened at all the engine starts in degraded mode
// on the fallback alone; a migration failure is returned as an error because
// it indicates a deployment problem rather than an outage.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	degraded := NewMemorySyncItemRepository(cfg.FallbackCapacity)

	db, err := connectPrimary(cfg, log)
	if err != nil {
		log.Warn().
			Str("func", "NewStorages").
			Err(err).
			Msg("primary store unavailable, starting in degraded mode")
		return &Storages{Items: degraded}, nil
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	primary := NewSyncItemRepository(db, log)

	return &Storages{
		Items: NewFailoverSyncItemRepository(primary, degraded, log),
	}, nil
}

func connectPrimary(cfg config.Storage, log *logger.Logger) (*DB, error) {
	ctx := context.Background()

	if strings.HasPrefix(cfg.DB.DSN, "postgres://") || strings.HasPrefix(cfg.DB.DSN, "postgresql://") {
		return NewConnectPostgres(ctx, cfg.DB, log)
	}
	return NewConnectSQLite(ctx, cfg.DB, log)
}

func sortByTimestamp(items []models.SyncItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
}
