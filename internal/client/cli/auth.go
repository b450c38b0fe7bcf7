package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/localmart-users/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for name, email and password, creates the account and
// caches the returned token. The password is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	tok, err := a.api.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(tok.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Fprintf(a.out, "Account created, logged in as %s\n", tok.User.Email)
	return nil
}

// Login prompts for credentials and caches the returned token.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	tok, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(tok.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", tok.User.Email)
	return nil
}

// Logout drops the cached token.
func (a *App) Logout() error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
