package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sebasr/greet-service/internal/config"
)

// Each driver has its own directory of migrations under migrations/
//
//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending up migrations for the configured driver.
// It returns nil when the schema is already current.
func (db *DB) Migrate() (err error) {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrator(m)) }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrateDown rolls back every applied migration
func (db *DB) MigrateDown() (err error) {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeMigrator(m)) }()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the applied migration version and whether it is dirty.
// A database with no migrations applied reports version 0.
func (db *DB) SchemaVersion() (version uint, dirty bool, err error) {
	m, err := db.migrator()
	if err != nil {
		return 0, false, err
	}
	defer func() { err = errors.Join(err, closeMigrator(m)) }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version, dirty, nil
}

// migrator builds a migrate instance over its own connection pool.
// The pgx driver pins a connection until it is closed, so migrations never
// borrow from the application pool. Callers must release it with closeMigrator.
func (db *DB) migrator() (*migrate.Migrate, error) {
	if db.driverName == "" {
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	// Dedicated pool, closed together with the migrate instance
	conn, err := sql.Open(db.driverName, db.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	var driver migratedb.Driver
	switch db.Driver {
	case config.DriverPostgres:
		driver, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
	case config.DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Driver, driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// closeMigrator releases the migration source and its connection pool
func closeMigrator(m *migrate.Migrate) error {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		return fmt.Errorf("failed to close migrator: %w", err)
	}
	return nil
}
