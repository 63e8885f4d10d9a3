package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trivision/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// authMessage picks the text shown after a failed register or login.
func authMessage(err error) string {
	for _, e := range []error{common.ErrDuplicateUser, common.ErrInvalidCredentials, common.ErrEmptyField} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	return "An error occurred"
}

func (a *App) credentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "User Identification", a.out)
	if err != nil {
		return "", nil, err
	}
	secret, err := getPassword(a.reader, "Access Key", a.out)
	if err != nil {
		return "", nil, err
	}
	return username, secret, nil
}

// Register prompts for a user id and access key and creates the account,
// which also logs it in.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Use logout first.")
		return nil
	}
	fmt.Fprintln(a.out, "REGISTER NEW PERSONNEL")

	username, secret, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	fmt.Fprintln(a.out, "PROCESSING...")
	acc, err := a.authService.Register(ctx, username, secret)
	if err != nil {
		a.logger.Warn(ctx, "registration failed", "username", username, "error", err)
		fmt.Fprintf(a.out, "ERROR: %s\n", authMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Record created. Welcome, %s.\n", acc.Username)
	return nil
}

// Login prompts for credentials and establishes the session.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Use logout first.")
		return nil
	}
	fmt.Fprintln(a.out, "AUTHENTICATE IDENTITY")

	username, secret, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	fmt.Fprintln(a.out, "PROCESSING...")
	acc, err := a.authService.Login(ctx, username, secret)
	if err != nil {
		fmt.Fprintf(a.out, "ERROR: %s\n", authMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Session initiated. Welcome, %s.\n", acc.Username)
	return nil
}

// Logout ends the session and forgets the last acquired image.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.pipeline.Reset()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	acc := a.authService.CurrentUser()
	if acc == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (registered %s)\n", acc.Username, acc.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}
