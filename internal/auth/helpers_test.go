package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/trivision/internal/kv"
)

var errStoreDown = errors.New("store down")

// flakyStore wraps a MemoryStore and fails selected operations.
type flakyStore struct {
	*kv.MemoryStore
	failGet    bool
	failSet    bool
	failDelete bool
	// failSetKey fails Set for one key only.
	failSetKey string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: kv.NewMemoryStore()}
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errStoreDown
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet || key == f.failSetKey {
		return errStoreDown
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	if f.failSet {
		return errStoreDown
	}
	return f.MemoryStore.Update(ctx, key, fn)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errStoreDown
	}
	return f.MemoryStore.Delete(ctx, key)
}
