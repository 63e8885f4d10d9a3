// Package auth holds the credential store and the session holder.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/cryptox"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
)

// Service defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account and log it in; ErrDuplicateUser if taken.
//   - Login: check credentials; ErrInvalidCredentials for unknown user and
//     wrong secret alike.
//   - Logout: clear the session; never fails for the caller.
//   - CurrentUser: the logged-in account or nil, no side effects.
//   - Restore: load the persisted session at start-up.
type Service interface {
	Register(ctx context.Context, username string, secret []byte) (models.Account, error)
	Login(ctx context.Context, username string, secret []byte) (models.Account, error)
	Logout(ctx context.Context)
	CurrentUser() *models.Account
	Restore(ctx context.Context) (*models.Account, error)
}

type service struct {
	store   kv.Store
	session *SessionHolder
	latency time.Duration
	logger  logging.Logger
	now     func() time.Time
}

// NewService builds a Service over store. latency is an artificial
// delay applied to Register and Login, standing in for a remote backend.
func NewService(store kv.Store, session *SessionHolder, latency time.Duration, logger logging.Logger) Service {
	return &service{
		store:   store,
		session: session,
		latency: latency,
		logger:  logger.With("component", "auth"),
		now:     time.Now,
	}
}

// dummySalt keeps login timing similar for unknown usernames.
var dummySalt = make([]byte, cryptox.SaltSize)

func (a *service) delay(ctx context.Context) error {
	if a.latency <= 0 {
		return nil
	}
	t := time.NewTimer(a.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeAccounts(raw []byte) ([]models.AccountRecord, error) {
	if raw == nil {
		return nil, nil
	}
	var records []models.AccountRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return records, nil
}

func (a *service) Register(ctx context.Context, username string, secret []byte) (models.Account, error) {
	if err := a.delay(ctx); err != nil {
		return models.Account{}, err
	}
	if username == "" || len(secret) == 0 {
		return models.Account{}, common.ErrEmptyField
	}

	var created models.AccountRecord
	err := a.store.Update(ctx, common.UsersKey, func(old []byte) ([]byte, error) {
		records, err := decodeAccounts(old)
		if err != nil {
			return nil, err
		}
		if _, found := findUser(records, username); found {
			return nil, common.ErrDuplicateUser
		}

		salt, verifier := cryptox.NewVerifier(secret)
		created = models.AccountRecord{
			Username:  username,
			Salt:      salt,
			Verifier:  verifier,
			CreatedAt: a.now().UTC(),
		}
		return json.Marshal(append(records, created))
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("register: %w", err)
	}

	acc := created.Account()
	if err := a.session.Set(ctx, acc); err != nil {
		a.dropUser(ctx, username)
		return models.Account{}, fmt.Errorf("register: %w", err)
	}
	a.logger.Info(ctx, "account registered", "username", username)
	return acc, nil
}

// dropUser removes a just-created account whose session could not be saved,
// so the username stays free for a retry.
func (a *service) dropUser(ctx context.Context, username string) {
	err := a.store.Update(ctx, common.UsersKey, func(old []byte) ([]byte, error) {
		records, err := decodeAccounts(old)
		if err != nil {
			return nil, err
		}
		kept := records[:0]
		for _, r := range records {
			if r.Username != username {
				kept = append(kept, r)
			}
		}
		return json.Marshal(kept)
	})
	if err != nil {
		a.logger.Error(ctx, "registration rollback failed", "username", username, "error", err)
	}
}

func (a *service) Login(ctx context.Context, username string, secret []byte) (models.Account, error) {
	if err := a.delay(ctx); err != nil {
		return models.Account{}, err
	}

	raw, err := a.store.Get(ctx, common.UsersKey)
	if err != nil {
		return models.Account{}, fmt.Errorf("login: %w", err)
	}
	records, err := decodeAccounts(raw)
	if err != nil {
		return models.Account{}, fmt.Errorf("login: %w", err)
	}

	rec, found := findUser(records, username)
	if !found {
		cryptox.CheckSecret(secret, dummySalt, nil)
	} else if cryptox.CheckSecret(secret, rec.Salt, rec.Verifier) {
		acc := rec.Account()
		if err := a.session.Set(ctx, acc); err != nil {
			return models.Account{}, err
		}
		a.logger.Info(ctx, "login succeeded", "username", username)
		return acc, nil
	}

	a.logger.Warn(ctx, "login rejected", "username", username)
	return models.Account{}, common.ErrInvalidCredentials
}

func findUser(records []models.AccountRecord, username string) (models.AccountRecord, bool) {
	for _, r := range records {
		if r.Username == username {
			return r, true
		}
	}
	return models.AccountRecord{}, false
}

func (a *service) Logout(ctx context.Context) {
	if err := a.session.Clear(ctx); err != nil {
		a.logger.Error(ctx, "logout: session not removed from store", "error", err)
	}
}

func (a *service) CurrentUser() *models.Account {
	return a.session.Current()
}

func (a *service) Restore(ctx context.Context) (*models.Account, error) {
	return a.session.Restore(ctx)
}
