package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded session-store migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite session database at dsn
// and migrates it. The caller must import a driver registered as "sqlite".
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
