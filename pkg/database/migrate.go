package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsTable version table, named so the attendance schema can share a
// database with other apps.
const MigrationsTable = "school_attendance_migrations"

// RunMigrations creates or upgrades the snapshot tables (users, courses,
// timetable_entries, attendance_records, notices). Called at
// startup only when postgres is the primary store.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		// the file fallback keeps serving, but gorm writes will fail until fixed
		logger.Warn("attendance schema migration is dirty",
			zap.Uint("version", version), zap.String("table", MigrationsTable))
	} else {
		logger.Info("attendance schema migrated",
			zap.Uint("version", version), zap.String("table", MigrationsTable))
	}

	return nil
}
