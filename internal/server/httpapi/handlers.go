package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/localmart-users/internal/logging"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"github.com/dmitrijs2005/localmart-users/internal/server/observability"
	"github.com/dmitrijs2005/localmart-users/internal/server/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Accounts is the account business logic the handlers drive.
type Accounts interface {
	Signup(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, id int64) (*models.Account, error)
	UpdateProfile(ctx context.Context, current *models.Account, upd models.AccountUpdate) (*models.Account, error)
	GetAccount(ctx context.Context, current *models.Account, id int64) (*models.Account, error)
}

type tokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        models.AccountView `json:"user"`
}

func newTokenResponse(res *services.AuthResult) tokenResponse {
	return tokenResponse{AccessToken: res.AccessToken, TokenType: res.TokenType, User: res.Account.View()}
}

type Handlers struct {
	accounts Accounts
	validate *validator.Validate
	logger   logging.Logger
	metrics  *observability.Metrics
}

func NewHandlers(accounts Accounts, logger logging.Logger, metrics *observability.Metrics) *Handlers {
	return &Handlers{accounts: accounts, validate: newValidator(), logger: logger, metrics: metrics}
}

// decode parses and validates the body, answering 400, 413 or 422 itself.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := ParseJSON(r, dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteDetail(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		WriteDetail(w, http.StatusBadRequest, msgMalformedRequest)
		return false
	}
	if err := h.validate.Struct(dest); err != nil {
		WriteDetail(w, http.StatusUnprocessableEntity, validationMessage(err))
		return false
	}
	return true
}

// fail writes the mapped error, logging anything without a public meaning.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, op, fallback string, args ...any) {
	status, msg, known := errorStatus(err)
	if !known {
		args = append(args, "request_id", RequestIDFromContext(r.Context()), "operation", op, "error", err)
		h.logger.Error(r.Context(), "request failed", args...)
		msg = fallback
	}
	WriteDetail(w, status, msg)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.accounts.Signup(r.Context(), req.Name, req.Email, req.Password)
	h.metrics.RecordAuthEvent(observability.EventSignup, err == nil)
	if err != nil {
		h.fail(w, r, err, "signup", msgSignupFailed, "email", req.Email)
		return
	}

	h.logger.Info(r.Context(), "account created", "user_id", res.Account.ID, "email", res.Account.Email)
	_ = WriteJSON(w, http.StatusCreated, newTokenResponse(res))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	h.metrics.RecordAuthEvent(observability.EventLogin, err == nil)
	if err != nil {
		h.fail(w, r, err, "login", msgLoginFailed, "email", req.Email)
		return
	}

	h.logger.Info(r.Context(), "login succeeded", "user_id", res.Account.ID)
	_ = WriteJSON(w, http.StatusOK, newTokenResponse(res))
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := AccountFromContext(r.Context())
	if !ok {
		WriteDetail(w, http.StatusUnauthorized, msgHeaderRequired)
		return
	}

	account, err := h.accounts.Profile(r.Context(), current.ID)
	if err != nil {
		h.fail(w, r, err, "profile", msgInternal, "user_id", current.ID)
		return
	}
	_ = WriteJSON(w, http.StatusOK, account.View())
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current, ok := AccountFromContext(r.Context())
	if !ok {
		WriteDetail(w, http.StatusUnauthorized, msgHeaderRequired)
		return
	}

	var req updateRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), current, models.AccountUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(w, r, err, "update_profile", msgUpdateFailed, "user_id", current.ID)
		return
	}

	h.logger.Info(r.Context(), "profile updated", "user_id", account.ID)
	_ = WriteJSON(w, http.StatusOK, account.View())
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	current, ok := AccountFromContext(r.Context())
	if !ok {
		WriteDetail(w, http.StatusUnauthorized, msgHeaderRequired)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteDetail(w, http.StatusUnprocessableEntity, msgInvalidUserID)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), current, id)
	if err != nil {
		h.fail(w, r, err, "get_user", msgInternal, "user_id", current.ID, "target_id", id)
		return
	}
	_ = WriteJSON(w, http.StatusOK, account.View())
}
