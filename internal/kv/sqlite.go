package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/trivision/internal/kv/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of dialect ("sqlite3" or
// "postgres") to db. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	dir := "sqlite"
	if dialect == "postgres" {
		dir = "postgres"
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// migrates it. ":memory:" is accepted for throwaway stores.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return newSQLStore(db, sqliteQueries), nil
}
