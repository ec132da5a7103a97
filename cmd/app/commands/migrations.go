package commands

import (
	"fmt"
	"log/slog"

	"github.com/allisson/todos/internal/database"
)

// RunMigrations applies the embedded migrations of driver to the database at connectionString.
// Returns nil when the schema is already up to date.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	err := database.Migrate(database.Config{
		Driver:           driver,
		ConnectionString: connectionString,
	})
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
