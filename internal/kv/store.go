// Package kv is the key-value persistence substrate behind accounts, the
// session slot and the history log.
//
// Adapters:
//   - MemoryStore: process-local map, used by tests and "memory:" DSNs.
//   - SQLStore: SQLite (modernc.org/sqlite) or PostgreSQL (pgx), schema
//     managed by embedded goose migrations.
//   - S3Store: one object per key under a bucket prefix.
//
// A missing key is not an error: Get returns (nil, nil), following the
// metadata repository contract of the CLI's local database.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExceeded is returned by a quota-wrapped store when a value is
// larger than the configured limit.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// UpdateFunc receives the current value (nil if absent) and returns the
// value to store.
type UpdateFunc func(old []byte) ([]byte, error)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update performs a read-modify-write of key. SQL adapters run it in a
	// single transaction; the others assume a single writer.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// Options selects and configures an adapter.
type Options struct {
	// DSN forms: "memory:", "sqlite:PATH" or a bare path,
	// "postgres://...", "s3://bucket/prefix".
	DSN        string
	QuotaBytes int64
	S3         S3Options
}

// Open builds the adapter named by opts.DSN, running migrations where the
// adapter has a schema.
func Open(ctx context.Context, opts Options) (Store, error) {
	store, err := open(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.QuotaBytes > 0 {
		store = WithQuota(store, opts.QuotaBytes)
	}
	return store, nil
}

func open(ctx context.Context, opts Options) (Store, error) {
	dsn := strings.TrimSpace(opts.DSN)

	switch {
	case dsn == "memory:":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "s3://"):
		bucket, prefix, err := parseS3DSN(dsn)
		if err != nil {
			return nil, err
		}
		return OpenS3(ctx, bucket, prefix, opts.S3)
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite:"))
	case dsn == "":
		return nil, fmt.Errorf("empty store DSN")
	default:
		return OpenSQLite(ctx, dsn)
	}
}
