package kv

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgresStore wraps an already opened and migrated database.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return newSQLStore(db, postgresQueries)
}

// OpenPostgres connects through pgx, checks the connection and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db, "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresStore(db), nil
}
