package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/localmart-users/internal/client/client"
)

// withToken runs fn with the cached token. A token the server rejected is dropped so
// the next run asks for a fresh login.
func (a *App) withToken(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	tok, err := a.tokens.Load()
	if err != nil {
		return err
	}
	err = fn(ctx, tok)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.tokens.Clear()
	}
	return err
}

func (a *App) Me(ctx context.Context) error {
	return a.withToken(ctx, func(ctx context.Context, token string) error {
		v, err := a.api.Me(ctx, token)
		if err != nil {
			return err
		}
		a.printAccount(v)
		return nil
	})
}

// Update asks for a new name and email; an empty answer keeps the field.
func (a *App) Update(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var upd client.ProfileUpdate
	if name != "" {
		upd.Name = &name
	}
	if email != "" {
		upd.Email = &email
	}

	return a.withToken(ctx, func(ctx context.Context, token string) error {
		v, err := a.api.UpdateMe(ctx, token, upd)
		if err != nil {
			return err
		}
		a.printAccount(v)
		return nil
	})
}

func (a *App) Get(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer", ErrUsage)
	}

	return a.withToken(ctx, func(ctx context.Context, token string) error {
		v, err := a.api.GetUser(ctx, token, id)
		if err != nil {
			return err
		}
		a.printAccount(v)
		return nil
	})
}
