package history

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// tick returns a clock that advances one second per call, starting at base+1s.
func tick() func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func verdict(label string) models.Verdict {
	return models.Verdict{Classification: models.DryWaste, Confidence: 0.9, Label: label, Reasoning: "r"}
}

func TestLog_CapacityNewestFirst(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemoryStore(), 20, logging.Nop())
	l.now = tick()

	for i := 1; i <= 25; i++ {
		l.Save(ctx, verdict("item"), []byte{byte(i)})
	}

	all := l.GetAll(ctx)
	require.Len(t, all, 20)
	assert.Equal(t, base.Add(25*time.Second), all[0].CreatedAt)
	assert.Equal(t, base.Add(6*time.Second), all[19].CreatedAt)
	assert.Equal(t, []byte{25}, all[0].Image)

	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt))
		assert.Greater(t, all[i-1].ID, all[i].ID, "v7 ids sort by creation time")
	}
}

func TestLog_SaveReturnsEntry(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemoryStore(), 0, logging.Nop())
	assert.Equal(t, common.DefaultHistoryCapacity, l.Capacity())

	e := l.Save(ctx, verdict("Apple Core"), []byte("jpeg"))
	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Core", e.Verdict.Label)

	got, err := l.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Verdict, got.Verdict)
	assert.Equal(t, []byte("jpeg"), got.Image)
	assert.True(t, e.CreatedAt.Equal(got.CreatedAt))
}

func TestLog_GetNotFound(t *testing.T) {
	l := New(kv.NewMemoryStore(), 20, logging.Nop())
	_, err := l.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLog_Clear(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemoryStore(), 20, logging.Nop())
	l.Save(ctx, verdict("a"), nil)
	l.Save(ctx, verdict("b"), nil)
	require.Len(t, l.GetAll(ctx), 2)

	l.Clear(ctx)
	assert.Empty(t, l.GetAll(ctx))

	// clearing an empty log is fine
	l.Clear(ctx)
	assert.Empty(t, l.GetAll(ctx))
}

func TestLog_QuotaFailureSwallowed(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	store := kv.WithQuota(kv.NewMemoryStore(), 2048)
	l := New(store, 20, logging.New(&buf, "debug"))

	first := l.Save(ctx, verdict("small"), []byte("x"))
	require.Len(t, l.GetAll(ctx), 1)

	big := bytes.Repeat([]byte{0xff}, 4096)
	e := l.Save(ctx, verdict("big"), big)
	assert.Equal(t, "big", e.Verdict.Label)

	all := l.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Contains(t, buf.String(), "history not saved")
	assert.Contains(t, buf.String(), "storage quota exceeded")
}

func TestLog_CorruptDataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.HistoryKey, []byte("not json")))
	l := New(store, 20, logging.Nop())

	assert.Empty(t, l.GetAll(ctx))

	// a save over corrupt data starts a fresh log
	l.Save(ctx, verdict("a"), nil)
	assert.Len(t, l.GetAll(ctx), 1)
}

type failingStore struct {
	*kv.MemoryStore
}

var errDown = errors.New("down")

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errDown
}

func (failingStore) Delete(context.Context, string) error {
	return errDown
}

func TestLog_StoreErrorsAbsorbed(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := New(failingStore{kv.NewMemoryStore()}, 20, logging.New(&buf, "info"))

	assert.Empty(t, l.GetAll(ctx))
	l.Clear(ctx)
	assert.Contains(t, buf.String(), "history read failed")
	assert.Contains(t, buf.String(), "history not cleared")
}

func TestLog_IDFallback(t *testing.T) {
	orig := newID
	t.Cleanup(func() { newID = orig })
	newID = func() (string, error) { return "", errors.New("no entropy") }

	l := New(kv.NewMemoryStore(), 20, logging.Nop())
	l.now = func() time.Time { return base }
	e := l.Save(context.Background(), verdict("a"), nil)
	assert.NotEmpty(t, e.ID)
}

func TestLog_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	l := New(store, 20, logging.Nop())
	l.now = func() time.Time { return base }
	l.Save(ctx, verdict("a"), []byte("img"))

	raw, err := store.Get(ctx, common.HistoryKey)
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"createdAt":"2025-06-01T12:00:00Z"`)
	assert.Contains(t, s, `"imageData":"aW1n"`)
	assert.Contains(t, s, `"classification":"DRY_WASTE"`)
}
