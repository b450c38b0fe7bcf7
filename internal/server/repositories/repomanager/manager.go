package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/localmart-users/internal/dbx"
	"github.com/dmitrijs2005/localmart-users/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
