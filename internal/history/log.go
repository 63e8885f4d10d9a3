// Package history keeps the bounded, newest-first log of completed
// classifications under the "history" key.
//
// Persistence problems never reach the caller: a failed write is logged and
// the log stays as it was, an unreadable collection reads as empty.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
	"github.com/google/uuid"
)

// newID yields time-ordered identifiers; overridden in tests.
var newID = func() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Log struct {
	store    kv.Store
	capacity int
	logger   logging.Logger
	now      func() time.Time
}

// New returns a Log holding at most capacity entries. A non-positive
// capacity falls back to common.DefaultHistoryCapacity.
func New(store kv.Store, capacity int, logger logging.Logger) *Log {
	if capacity <= 0 {
		capacity = common.DefaultHistoryCapacity
	}
	return &Log{
		store:    store,
		capacity: capacity,
		logger:   logger.With("component", "history"),
		now:      time.Now,
	}
}

func (l *Log) Capacity() int { return l.capacity }

func decode(raw []byte) ([]models.HistoryEntry, error) {
	if raw == nil {
		return nil, nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save prepends a new entry and truncates to capacity. It returns the entry
// it built; whether it was persisted is only visible in the logs.
func (l *Log) Save(ctx context.Context, verdict models.Verdict, image []byte) models.HistoryEntry {
	entry := models.HistoryEntry{
		CreatedAt: l.now().UTC(),
		Verdict:   verdict,
		Image:     append([]byte(nil), image...),
	}

	id, err := newID()
	if err != nil {
		l.logger.Error(ctx, "history id generation failed", "error", err)
		entry.ID = fmt.Sprintf("%d", entry.CreatedAt.UnixNano())
	} else {
		entry.ID = id
	}

	err = l.store.Update(ctx, common.HistoryKey, func(old []byte) ([]byte, error) {
		entries, err := decode(old)
		if err != nil {
			l.logger.Warn(ctx, "discarding unreadable history", "error", err)
			entries = nil
		}
		next := make([]models.HistoryEntry, 0, l.capacity)
		next = append(next, entry)
		for _, e := range entries {
			if len(next) == l.capacity {
				break
			}
			next = append(next, e)
		}
		return json.Marshal(next)
	})
	if err != nil {
		l.logger.Error(ctx, "history not saved",
			"id", entry.ID,
			"error", fmt.Errorf("%w: %w", common.ErrPersistenceWrite, err))
	}
	return entry
}

// GetAll returns the entries newest first. Absent or undecodable data yields
// an empty slice.
func (l *Log) GetAll(ctx context.Context) []models.HistoryEntry {
	raw, err := l.store.Get(ctx, common.HistoryKey)
	if err != nil {
		l.logger.Error(ctx, "history read failed", "error", err)
		return []models.HistoryEntry{}
	}
	entries, err := decode(raw)
	if err != nil {
		l.logger.Warn(ctx, "history unreadable, treating as empty", "error", err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		return []models.HistoryEntry{}
	}
	return entries
}

func (l *Log) Get(ctx context.Context, id string) (models.HistoryEntry, error) {
	for _, e := range l.GetAll(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return models.HistoryEntry{}, fmt.Errorf("history entry %s: %w", id, common.ErrNotFound)
}

func (l *Log) Clear(ctx context.Context) {
	if err := l.store.Delete(ctx, common.HistoryKey); err != nil {
		l.logger.Error(ctx, "history not cleared", "error", err)
		return
	}
	l.logger.Info(ctx, "history cleared")
}
