package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// EnsureSchemaAccess verifies, before migrations run, that the Postgres role
// can create the tables. A role without CREATE on the current schema is still
// accepted when channel_details already exists, so a DBA-managed schema works
// with a read/write-only account.
func EnsureSchemaAccess(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	var canCreate bool
	err = db.QueryRow("SELECT has_schema_privilege(current_schema(), 'CREATE')").Scan(&canCreate)
	if err != nil {
		return fmt.Errorf("check schema privilege: %w", err)
	}
	if canCreate {
		return nil
	}

	var exists bool
	err = db.QueryRow("SELECT to_regclass('channel_details') IS NOT NULL").Scan(&exists)
	if err != nil {
		return fmt.Errorf("check channel_details: %w", err)
	}
	if exists {
		return nil // schema was pre-created by an admin
	}
	return errors.New("channel_details does not exist and the current database user lacks permission to create it; " +
		"ask your database admin to apply the migrations or set AUTO_MIGRATE=false")
}

// RunMigrations runs SQL migrations from the given directory (e.g. "file://migrations/postgres")
// against a golang-migrate database URL (postgres://... or mysql://...).
func RunMigrations(databaseURL string, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate.Up: %w", err)
	}
	return nil
}
