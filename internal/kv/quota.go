package kv

import (
	"context"
	"fmt"
)

type quotaStore struct {
	Store
	max int64
}

// WithQuota rejects writes whose value exceeds maxBytes with
// ErrQuotaExceeded, leaving the previous value in place.
func WithQuota(s Store, maxBytes int64) Store {
	return &quotaStore{Store: s, max: maxBytes}
}

func (q *quotaStore) check(key string, value []byte) error {
	if int64(len(value)) > q.max {
		return fmt.Errorf("set %s (%d bytes, limit %d): %w", key, len(value), q.max, ErrQuotaExceeded)
	}
	return nil
}

func (q *quotaStore) Set(ctx context.Context, key string, value []byte) error {
	if err := q.check(key, value); err != nil {
		return err
	}
	return q.Store.Set(ctx, key, value)
}

func (q *quotaStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return q.Store.Update(ctx, key, func(old []byte) ([]byte, error) {
		next, err := fn(old)
		if err != nil {
			return nil, err
		}
		if err := q.check(key, next); err != nil {
			return nil, err
		}
		return next, nil
	})
}
