// Package remoteauth talks to the hosted auth service that holds an
// independent identity record per email. The local credential check is always
// authoritative; callers treat every error from this package as non-fatal.
package remoteauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
)

// Sentinel errors used to classify remote failures.
var (
	// ErrAccountNotFound means the remote has no identity for this email yet.
	// The caller is expected to follow up with SignUp.
	ErrAccountNotFound = errors.New("remote identity does not exist")
	// ErrSchemaMismatch means the remote responded with a body that does not
	// decode into the expected schema.
	ErrSchemaMismatch = errors.New("remote response schema mismatch")
	// ErrUnavailable covers transport failures and non-auth status codes.
	ErrUnavailable = errors.New("remote auth service unavailable")
)

// Client is an HTTP client for the remote auth service.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a remote auth client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.RemoteAuthURL,
		apiKey:  cfg.RemoteAuthAPIKey,
		client:  &http.Client{Timeout: cfg.RemoteAuthTimeout},
	}
}

type credentialsRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Data     *signupMetadata `json:"data,omitempty"`
}

type signupMetadata struct {
	Role model.Role `json:"role"`
}

// tokenResponse is the expected success schema. Sign-up responses nest the
// token under "session" while password grants return it at the top level.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Session     *struct {
		AccessToken string `json:"access_token"`
	} `json:"session"`
}

func (t *tokenResponse) token() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	if t.Session != nil {
		return t.Session.AccessToken
	}
	return ""
}

type errorResponse struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// SignIn exchanges email/password for a remote access token.
// A 400-class rejection is classified as ErrAccountNotFound so the caller
// can create the identity lazily.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	return c.post(ctx, "/auth/v1/token?grant_type=password", credentialsRequest{
		Email:    email,
		Password: password,
	})
}

// SignUp creates a remote identity with the given credentials and role
// metadata, returning the access token of the fresh session.
func (c *Client) SignUp(ctx context.Context, email, password string, role model.Role) (string, error) {
	return c.post(ctx, "/auth/v1/signup", credentialsRequest{
		Email:    email,
		Password: password,
		Data:     &signupMetadata{Role: role},
	})
}

func (c *Client) post(ctx context.Context, path string, payload credentialsRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response", ErrUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		msg := ""
		if err := json.Unmarshal(raw, &errResp); err == nil {
			msg = errResp.Message
			if msg == "" {
				msg = errResp.Msg
			}
		}
		// The remote signals "no such identity" with a 400-class rejection
		// of the password grant.
		if resp.StatusCode == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrAccountNotFound, msg)
		}
		return "", fmt.Errorf("%w: HTTP %d %s", ErrUnavailable, resp.StatusCode, msg)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	token := tr.token()
	if token == "" {
		return "", fmt.Errorf("%w: success response without access token", ErrSchemaMismatch)
	}
	return token, nil
}
