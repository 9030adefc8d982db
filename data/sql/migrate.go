package sqldata

import (
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending migrations against the SQLite store.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to set migration dialect")
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to apply migrations")
	}

	return nil
}
