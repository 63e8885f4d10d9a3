package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/models"
)

// SessionHolder is the single current-user slot. It mirrors the persisted
// "session" key: Restore loads it once at start-up, Set and Clear write
// through to the store.
type SessionHolder struct {
	mu      sync.RWMutex
	store   kv.Store
	current *models.Account
}

func NewSessionHolder(store kv.Store) *SessionHolder {
	return &SessionHolder{store: store}
}

// Restore reads the persisted session. An undecodable record is dropped and
// treated as "nobody logged in".
func (h *SessionHolder) Restore(ctx context.Context) (*models.Account, error) {
	raw, err := h.store.Get(ctx, common.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = nil
	if raw == nil {
		return nil, nil
	}
	var acc models.Account
	if err := json.Unmarshal(raw, &acc); err != nil || acc.Username == "" {
		return nil, nil
	}
	h.current = &acc
	return h.copyCurrent(), nil
}

func (h *SessionHolder) Set(ctx context.Context, acc models.Account) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := h.store.Set(ctx, common.SessionKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	h.mu.Lock()
	h.current = &acc
	h.mu.Unlock()
	return nil
}

// Clear empties the slot. The in-memory slot is cleared even if the store
// delete fails, so logout always takes effect for this process.
func (h *SessionHolder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	if err := h.store.Delete(ctx, common.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the logged-in account, or nil.
func (h *SessionHolder) Current() *models.Account {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.copyCurrent()
}

func (h *SessionHolder) copyCurrent() *models.Account {
	if h.current == nil {
		return nil
	}
	acc := *h.current
	return &acc
}
