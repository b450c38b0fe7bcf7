// Package services contains server-side business logic. This file implements
// AccountService: signup, login and the profile operations of an
// authenticated account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/dbx"
	"github.com/dmitrijs2005/localmart-users/internal/server/auth"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"github.com/dmitrijs2005/localmart-users/internal/server/repositories/repomanager"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrijs2005/localmart-users/internal/server/services"

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(accountID int64, email string, isAdmin bool) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Account     *models.Account
	AccessToken string
	TokenType   string
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	guard       *Guard
	tracer      trace.Tracer

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		guard:       NewGuard(db, m, tokens),
		tracer:      otel.Tracer(tracerName),
	}
}

// Signup registers an account and returns a token for it.
func (s *AccountService) Signup(ctx context.Context, name, email, password string) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Signup")
	defer func() { endSpan(span, err) }()

	if utf8.RuneCountInString(password) < common.MinPasswordLength {
		return nil, common.ErrWeakPassword
	}
	email = common.NormalizeEmail(email)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	repo := s.repomanager.Accounts(conn)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := repo.Insert(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	span.SetAttributes(attribute.Int64("account.id", account.ID))

	return s.authResult(account)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Login")
	defer func() { endSpan(span, err) }()

	email = common.NormalizeEmail(email)

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	account, err := s.repomanager.Accounts(conn).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, s.fallbackHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	span.SetAttributes(attribute.Int64("account.id", account.ID))

	return s.authResult(account)
}

// Profile reloads the account with the given id.
func (s *AccountService) Profile(ctx context.Context, id int64) (account *models.Account, err error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Profile", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer func() { endSpan(span, err) }()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	account, err = s.repomanager.Accounts(conn).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return account, nil
}

// UpdateProfile applies a partial change to the current account. A changed
// email is checked for uniqueness before the write, in the same transaction.
func (s *AccountService) UpdateProfile(ctx context.Context, current *models.Account, upd models.AccountUpdate) (account *models.Account, err error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.UpdateProfile", trace.WithAttributes(attribute.Int64("account.id", current.ID)))
	defer func() { endSpan(span, err) }()

	if upd.Email != nil {
		normalized := common.NormalizeEmail(*upd.Email)
		upd.Email = &normalized
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if upd.Empty() {
		account, err = s.repomanager.Accounts(conn).FindByID(ctx, current.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("error loading account: %w", err)
		}
		return account, err
	}

	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if upd.Email != nil && *upd.Email != common.NormalizeEmail(current.Email) {
			exists, err := repo.ExistsByEmail(ctx, *upd.Email)
			if err != nil {
				return fmt.Errorf("error checking email: %w", err)
			}
			if exists {
				return common.ErrEmailTaken
			}
		}

		updated, err := repo.Update(ctx, current.ID, upd)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNotFound):
				return err
			case errors.Is(err, common.ErrDuplicateEmail):
				return common.ErrEmailTaken
			}
			return fmt.Errorf("error updating account: %w", err)
		}
		account = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the account with the given id if current may see it.
func (s *AccountService) GetAccount(ctx context.Context, current *models.Account, id int64) (account *models.Account, err error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.GetAccount", trace.WithAttributes(attribute.Int64("target.id", id)))
	defer func() { endSpan(span, err) }()

	if err := s.guard.Authorize(current, id); err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	account, err = s.repomanager.Accounts(conn).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return account, nil
}

// Guard exposes the access guard sharing this service's store and tokens.
func (s *AccountService) Guard() *Guard { return s.guard }

// --- helpers below ---

func (s *AccountService) authResult(account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{AccessToken: token, TokenType: common.TokenType, Account: account}, nil
}

// fallbackHash gives Login a hash to compare against when the email is
// unknown, so both failure paths cost one bcrypt comparison.
func (s *AccountService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("localmart-unknown-account")
	})
	return s.dummyHash
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
