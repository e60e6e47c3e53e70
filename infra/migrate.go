package infra

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies pending schema migrations. An empty path uses the
// migrations compiled into the binary.
func Migrate(db *gorm.DB, path string, logger *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migrate: database driver: %w", err)
	}

	var m *migrate.Migrate
	if path == "" {
		sub, err := fs.Sub(migrationFiles, "migrations")
		if err != nil {
			return err
		}
		src, err := iofs.New(sub, ".")
		if err != nil {
			return fmt.Errorf("migrate: embedded source: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", driver)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(path, "pgx5", driver)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}
	version, dirty, _ := m.Version()
	logger.Info("🗄️ schema migrated", "version", version, "dirty", dirty)
	return nil
}
