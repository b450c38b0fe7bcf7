package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		msg    string
		status int
		known  bool
	}{
		{common.ErrWeakPassword, msgWeakPassword, http.StatusBadRequest, true},
		{common.ErrPasswordTooLong, msgPasswordTooLong, http.StatusBadRequest, true},
		{common.ErrEmailTaken, msgEmailTaken, http.StatusBadRequest, true},
		{common.ErrInvalidCredentials, msgBadCredentials, http.StatusUnauthorized, true},
		{common.ErrUnauthenticated, msgHeaderRequired, http.StatusUnauthorized, true},
		{fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrInvalidToken), msgInvalidToken, http.StatusUnauthorized, true},
		{common.ErrForbidden, msgForbidden, http.StatusForbidden, true},
		{fmt.Errorf("wrapped: %w", common.ErrNotFound), msgUserNotFound, http.StatusNotFound, true},
		{errors.New("db down"), msgInternal, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg, known := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestValidationMessage(t *testing.T) {
	v := newValidator()

	err := v.Struct(&signupRequest{Email: "bad"})
	msg := validationMessage(err)
	assert.Contains(t, msg, "name: field required")
	assert.Contains(t, msg, "email: value is not a valid email address")

	empty := ""
	err = v.Struct(&updateRequest{Name: &empty})
	assert.Contains(t, validationMessage(err), "name: must be at least 1 characters")

	assert.NoError(t, v.Struct(&updateRequest{}))
}
