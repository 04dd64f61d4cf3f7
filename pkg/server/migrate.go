package server

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for golang-migrate
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
)

// openSQL opens the database/sql handle golang-migrate needs.
func openSQL(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration.
func Migrate(cfg *config.Config, logger *zap.Logger) error {
	db, err := openSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Database.MigrationsPath, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(cfg *config.Config, steps int, logger *zap.Logger) error {
	db, err := openSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.RollbackMigrations(db, cfg.Database.MigrationsPath, steps, logger)
}

// SchemaVersion reports the applied migration version and whether the last
// migration failed halfway.
func SchemaVersion(cfg *config.Config, logger *zap.Logger) (uint, bool, error) {
	db, err := openSQL(cfg)
	if err != nil {
		return 0, false, err
	}
	defer db.Close()

	return database.MigrationVersion(db, cfg.Database.MigrationsPath, logger)
}
