// Package accounts is the account store: lookups by email and id, creation
// and partial updates over any dbx.DBTX handle.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/localmart-users/internal/server/models"
)

// Repository persists accounts. Email arguments are expected to be
// normalized by the caller.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, name, email, passwordHash string) (*models.Account, error)
	Update(ctx context.Context, id int64, upd models.AccountUpdate) (*models.Account, error)
}
