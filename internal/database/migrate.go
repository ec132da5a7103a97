package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/allisson/todos/migrations"
)

// MigrationsDir returns the embedded migrations directory for a database driver.
func MigrationsDir(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "postgresql", nil
	case DriverMySQL:
		return "mysql", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewMigrate builds a migrate instance over the embedded migrations of the configured driver.
// The instance owns a dedicated connection pool; closing it releases the pool.
func NewMigrate(cfg Config) (*migrate.Migrate, error) {
	dir, err := MigrationsDir(cfg.Driver)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	driver, err := newMigrateDriver(cfg.Driver, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

// Migrate applies all pending migrations. Running it on an up to date schema is a no-op.
func Migrate(cfg Config) (err error) {
	m, err := NewMigrate(cfg)
	if err != nil {
		return err
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(sourceErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func newMigrateDriver(driver string, db *sql.DB) (migratedb.Driver, error) {
	switch driver {
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverMySQL:
		return mysql.WithInstance(db, &mysql.Config{})
	default:
		return sqlite.WithInstance(db, &sqlite.Config{})
	}
}
