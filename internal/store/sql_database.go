package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/migrations"
)

// DB wraps an open database connection together with the goose dialect it
// was opened for and the squirrel placeholder format matching the driver.
type DB struct {
	*sql.DB
	dialect string
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}
