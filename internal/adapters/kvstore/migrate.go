package kvstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFiles embed.FS

// MigrateSQLite applies the SQLite schema to db and closes it when done.
// Pass a dedicated handle, not the one the store uses.
func MigrateSQLite(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite3 driver instance for migrations: %w", err)
	}
	return runMigrations("migrations/sqlite", "sqlite3", driver)
}

// MigratePostgres applies the PostgreSQL schema to db and closes it when done.
// Pass a dedicated handle, not the one the store uses.
func MigratePostgres(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations("migrations/postgres", "postgres", driver)
}

func runMigrations(dir, databaseName string, driver database.Driver) error {
	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return errors.New("database is in a dirty migration state")
	}
	return nil
}
