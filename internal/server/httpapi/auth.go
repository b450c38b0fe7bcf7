package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/logging"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"github.com/dmitrijs2005/localmart-users/internal/server/observability"
)

// Authenticator resolves the caller from an Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.Account, error)
}

// AccountFromContext returns the account stored by AuthMiddleware.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(accountKey).(*models.Account)
	return a, ok && a != nil
}

// AuthMiddleware requires a valid bearer token naming an existing account.
type AuthMiddleware struct {
	auth    Authenticator
	logger  logging.Logger
	metrics *observability.Metrics
}

func NewAuthMiddleware(auth Authenticator, logger logging.Logger, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: logger, metrics: metrics}
}

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, err := m.auth.Authenticate(ctx, r.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			m.metrics.RecordAuthEvent(observability.EventAuthenticate, false)

			status, msg, known := errorStatus(err)
			if !known {
				m.logger.Error(ctx, "authentication failed",
					"request_id", RequestIDFromContext(ctx), "error", err)
			} else if errors.Is(err, common.ErrInvalidToken) {
				m.logger.Debug(ctx, "rejected token",
					"request_id", RequestIDFromContext(ctx), "reason", err.Error())
			}
			WriteDetail(w, status, msg)
			return
		}
		m.metrics.RecordAuthEvent(observability.EventAuthenticate, true)

		ctx = context.WithValue(ctx, accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
