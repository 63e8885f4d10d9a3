package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(store kv.Store) (Service, *SessionHolder) {
	h := NewSessionHolder(store)
	return NewService(store, h, 0, logging.Nop()), h
}

func storedUsers(t *testing.T, store kv.Store) []models.AccountRecord {
	t.Helper()
	raw, err := store.Get(context.Background(), common.UsersKey)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var out []models.AccountRecord
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestAuth_RegisterLogoutLogin(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)

	acc, err := svc.Register(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	require.NotNil(t, svc.CurrentUser())
	assert.Equal(t, "alice", svc.CurrentUser().Username)

	svc.Logout(ctx)
	assert.Nil(t, svc.CurrentUser())

	_, err = svc.Login(ctx, "alice", []byte("wrong"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Nil(t, svc.CurrentUser())

	acc, err = svc.Login(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, "alice", svc.CurrentUser().Username)
}

func TestAuth_RegisterStoresVerifierNotSecret(t *testing.T) {
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)

	_, err := svc.Register(context.Background(), "alice", []byte("hunter2"))
	require.NoError(t, err)

	raw, err := store.Get(context.Background(), common.UsersKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")

	users := storedUsers(t, store)
	require.Len(t, users, 1)
	assert.Len(t, users[0].Salt, 16)
	assert.Len(t, users[0].Verifier, 32)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)

	_, err := svc.Register(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	before := storedUsers(t, store)

	svc.Logout(ctx)
	_, err = svc.Register(ctx, "alice", []byte("other"))
	require.ErrorIs(t, err, common.ErrDuplicateUser)
	assert.Equal(t, "User ID already exists in the registry.", common.ErrDuplicateUser.Error())

	assert.Equal(t, before, storedUsers(t, store))
	assert.Nil(t, svc.CurrentUser())
}

func TestAuth_LoginSameErrorForUnknownAndWrongSecret(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(kv.NewMemoryStore())

	_, err := svc.Register(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	svc.Logout(ctx)

	_, errUnknown := svc.Login(ctx, "bob", []byte("pw1"))
	_, errWrong := svc.Login(ctx, "alice", []byte("pw2"))
	require.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, common.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuth_LoginEmptyRegistry(t *testing.T) {
	svc, _ := newAuth(kv.NewMemoryStore())
	_, err := svc.Login(context.Background(), "alice", []byte("pw"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuth_RegisterEmptyFields(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)

	_, err := svc.Register(ctx, "", []byte("pw"))
	require.ErrorIs(t, err, common.ErrEmptyField)
	_, err = svc.Register(ctx, "alice", nil)
	require.ErrorIs(t, err, common.ErrEmptyField)

	assert.Nil(t, storedUsers(t, store))
}

func TestAuth_RestoreAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)
	_, err := svc.Register(ctx, "alice", []byte("pw"))
	require.NoError(t, err)

	svc2, _ := newAuth(store)
	assert.Nil(t, svc2.CurrentUser())
	acc, err := svc2.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, "alice", svc2.CurrentUser().Username)
}

func TestAuth_RegisterStoreFailure(t *testing.T) {
	store := newFlakyStore()
	store.failSet = true
	svc, _ := newAuth(store)

	_, err := svc.Register(context.Background(), "alice", []byte("pw"))
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, svc.CurrentUser())
}

func TestAuth_RegisterSessionFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	store.failSetKey = common.SessionKey
	svc, _ := newAuth(store)

	_, err := svc.Register(ctx, "alice", []byte("pw"))
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, svc.CurrentUser())

	raw, err := store.Get(ctx, common.UsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	store.failSetKey = ""
	acc, err := svc.Register(ctx, "alice", []byte("pw"))
	require.NoError(t, err, "retry must not hit a duplicate")
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, "alice", svc.CurrentUser().Username)
}

func TestAuth_LoginCorruptRegistry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, common.UsersKey, []byte("[{")))
	svc, _ := newAuth(store)

	_, err := svc.Login(ctx, "alice", []byte("pw"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuth_LogoutSwallowsStoreError(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	svc, _ := newAuth(store)
	_, err := svc.Register(ctx, "alice", []byte("pw"))
	require.NoError(t, err)

	store.failDelete = true
	svc.Logout(ctx)
	assert.Nil(t, svc.CurrentUser())
}

func TestAuth_LatencyHonorsContext(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store, NewSessionHolder(store), time.Hour, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Register(ctx, "alice", []byte("pw"))
	require.ErrorIs(t, err, context.Canceled)
	_, err = svc.Login(ctx, "alice", []byte("pw"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, storedUsers(t, store))
}

func TestAuth_LatencyApplied(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store, NewSessionHolder(store), 20*time.Millisecond, logging.Nop())

	start := time.Now()
	_, err := svc.Register(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestAuth_SequentialRegistrationsMoveSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc, _ := newAuth(store)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := svc.Register(ctx, name, []byte("pw-"+name))
		require.NoError(t, err)
		require.Equal(t, name, svc.CurrentUser().Username)
	}
	assert.Len(t, storedUsers(t, store), 3)
}
