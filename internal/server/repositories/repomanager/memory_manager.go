package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/localmart-users/internal/dbx"
	"github.com/dmitrijs2005/localmart-users/internal/server/repositories/accounts"
)

// InMemoryRepositoryManager serves one shared in-memory store regardless of
// the handle it is given. Migrations are a no-op.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

// Store exposes the backing repository for seeding.
func (m *InMemoryRepositoryManager) Store() *accounts.MemoryRepository { return m.accounts }
