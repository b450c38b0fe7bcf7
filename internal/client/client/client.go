package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Token is the answer to a successful signup or login.
type Token struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        models.AccountView `json:"user"`
}

// ProfileUpdate is a partial profile change; nil fields are not sent.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Client is the users API as seen by the CLI.
type Client interface {
	Signup(ctx context.Context, name, email string, password []byte) (*Token, error)
	Login(ctx context.Context, email string, password []byte) (*Token, error)
	Me(ctx context.Context, token string) (*models.AccountView, error)
	UpdateMe(ctx context.Context, token string, upd ProfileUpdate) (*models.AccountView, error)
	GetUser(ctx context.Context, token string, id int64) (*models.AccountView, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8081/api/v1").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, name, email string, password []byte) (*Token, error) {
	var tok Token
	body := credentials{Name: name, Email: email, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*Token, error) {
	var tok Token
	body := credentials{Email: email, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.AccountView, error) {
	var v models.AccountView
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, token string, upd ProfileUpdate) (*models.AccountView, error) {
	var v models.AccountView
	if err := c.do(ctx, http.MethodPut, "/users/me", token, upd, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, token string, id int64) (*models.AccountView, error) {
	var v models.AccountView
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), token, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// do sends one JSON request and decodes a 2xx answer into out.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(payload.Detail)
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w", ErrUnavailable, apiErr)
	}
	return apiErr
}
