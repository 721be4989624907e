package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CakeInTech/faydapass/internal/assets"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const inMemoryDatabase = ":memory:"

// SetupDatabase opens the verification database and applies the embedded
// migrations. ":memory:" gives a throwaway database.
func (app *BootstrapApp) SetupDatabase(databasePath string) (*sql.DB, error) {
	db, err := openDatabase(databasePath)

	if err != nil {
		return nil, err
	}

	version, err := migrateDatabase(db)

	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", databasePath).Uint("schemaVersion", version).Msg("Verification database ready")

	return db, nil
}

func openDatabase(databasePath string) (*sql.DB, error) {
	dsn := databasePath

	if databasePath != inMemoryDatabase {
		dir := filepath.Dir(databasePath)

		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}

		// Writers wait for each other instead of failing with SQLITE_BUSY
		dsn = "file:" + databasePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection, every :memory: connection would otherwise be its own database
	db.SetMaxOpenConns(1)

	return db, nil
}

func migrateDatabase(db *sql.DB) (uint, error) {
	source, err := iofs.New(assets.Migrations, "migrations")

	if err != nil {
		return 0, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	target, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return 0, fmt.Errorf("failed to create sqlite3 migration target: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite3", target)

	if err != nil {
		return 0, fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate database: %w", err)
	}

	version, dirty, err := migrator.Version()

	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	if dirty {
		return 0, fmt.Errorf("database schema version %d is dirty", version)
	}

	return version, nil
}
