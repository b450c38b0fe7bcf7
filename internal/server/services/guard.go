package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"github.com/dmitrijs2005/localmart-users/internal/server/repositories/repomanager"
)

// Guard resolves the caller of a request from its bearer token and decides
// whether it may act on a given account.
type Guard struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

func NewGuard(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *Guard {
	return &Guard{db: db, repomanager: m, tokens: tokens}
}

// Authenticate verifies the Authorization header value and loads the
// account its token names.
func (g *Guard) Authenticate(ctx context.Context, header string) (*models.Account, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, common.ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	conn, err := g.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	account, err := g.repomanager.Accounts(conn).FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return account, nil
}

// Authorize allows the account itself and administrators.
func (g *Guard) Authorize(current *models.Account, targetID int64) error {
	if current == nil {
		return common.ErrUnauthenticated
	}
	if current.ID == targetID || current.IsAdmin {
		return nil
	}
	return common.ErrForbidden
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
