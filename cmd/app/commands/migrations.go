package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
)

// RunMigrations applies all pending migrations for the given driver. The pgx driver shares
// the postgresql migrations. Returns nil if there is nothing to apply.
func RunMigrations(logger *slog.Logger, driver, dsn string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	dialect, err := database.Dialect(driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	migrationsPath := "file://migrations/postgresql"
	if dialect == database.DialectMySQL {
		migrationsPath = "file://migrations/mysql"
		// golang-migrate selects its driver by URL scheme; go-sql-driver DSNs have none.
		if !strings.HasPrefix(dsn, "mysql://") {
			dsn = "mysql://" + dsn
		}
	}

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
