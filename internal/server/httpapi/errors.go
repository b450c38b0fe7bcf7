package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/localmart-users/internal/common"
)

// Messages shown to clients.
const (
	msgWeakPassword     = "Password must be at least 6 characters"
	msgPasswordTooLong  = "Password must be at most 72 bytes"
	msgEmailTaken       = "Email already registered"
	msgBadCredentials   = "Invalid email or password"
	msgInvalidToken     = "Invalid or expired token"
	msgHeaderRequired   = "Authorization header required"
	msgForbidden        = "Not enough permissions"
	msgUserNotFound     = "User not found"
	msgSignupFailed     = "Error creating account. Please try again."
	msgLoginFailed      = "Error logging in. Please try again."
	msgUpdateFailed     = "Error updating profile. Please try again."
	msgInternal         = "Internal server error"
	msgInvalidUserID    = "Invalid user id"
	msgMalformedRequest = "Malformed request body"
	msgBodyTooLarge     = "Request body too large"
)

// errorStatus maps a service error to its status code and client message.
// ok is false for errors with no public meaning.
func errorStatus(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, common.ErrWeakPassword):
		return http.StatusBadRequest, msgWeakPassword, true
	case errors.Is(err, common.ErrPasswordTooLong):
		return http.StatusBadRequest, msgPasswordTooLong, true
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusBadRequest, msgEmailTaken, true
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgBadCredentials, true
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken, true
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, msgHeaderRequired, true
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, msgForbidden, true
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, msgUserNotFound, true
	}
	return http.StatusInternalServerError, msgInternal, false
}
