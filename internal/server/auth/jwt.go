// Package auth issues and verifies the bearer tokens of the users service and
// hashes account passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. The member names (sub, email, is_admin, iat,
// exp) are shared with other services verifying the same tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	AccountID int64  `json:"-"`
}

// TokenService signs HS256 access tokens with a shared secret.
type TokenService struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for iat/exp and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Issue(accountID int64, email string, isAdmin bool) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email:   email,
		IsAdmin: isAdmin,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and decodes the claims.
// Every failure wraps common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: subject %q", common.ErrInvalidToken, common.ErrMalformedToken, claims.Subject)
	}
	claims.AccountID = id

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrInvalidSignature)
	default:
		return fmt.Errorf("%w: %w: %v", common.ErrInvalidToken, common.ErrMalformedToken, err)
	}
}
