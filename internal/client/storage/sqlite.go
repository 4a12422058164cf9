// Package storage opens the local client state database.
//
// The database is a single SQLite file (pure-Go driver, no cgo) whose schema
// is kept up to date with the goose migrations embedded in package
// migrations. Only session state lives here; entity data is never stored
// locally.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// RunMigrations applies every pending embedded migration to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the state database at dsn and migrates it.
// A single connection is used so that ":memory:" databases behave like files.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
