package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trivision/internal/dbx"
)

type queries struct {
	get       string
	getLocked string
	set       string
	delete    string
}

var sqliteQueries = queries{
	get:       `SELECT value FROM kv WHERE key = ?`,
	getLocked: `SELECT value FROM kv WHERE key = ?`,
	set: `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	delete: `DELETE FROM kv WHERE key = ?`,
}

var postgresQueries = queries{
	get:       `SELECT value FROM kv WHERE key = $1`,
	getLocked: `SELECT value FROM kv WHERE key = $1 FOR UPDATE`,
	set: `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	delete: `DELETE FROM kv WHERE key = $1`,
}

// SQLStore keeps every key as one row of the kv table.
type SQLStore struct {
	db *sql.DB
	q  queries
}

func newSQLStore(db *sql.DB, q queries) *SQLStore {
	return &SQLStore{db: db, q: q}
}

func (s *SQLStore) get(ctx context.Context, db dbx.DBTX, query, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, s.db, s.q.get, key)
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, s.db, key, value)
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, key); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		old, err := s.get(ctx, tx, s.q.getLocked, key)
		if err != nil {
			return err
		}
		next, err := fn(old)
		if err != nil {
			return err
		}
		return s.set(ctx, tx, key, next)
	})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
