// Package identity wraps the GoTrue-compatible auth API of the identity
// provider. Credential storage, email verification and password reset all
// live on the provider side; this client only drives them.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User is the provider's account record.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	EmailConfirmedAt string         `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Session is the token set issued by the provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// SignUpResult is returned by SignUp. Depending on the provider's email
// confirmation settings the session may be absent while the user is present.
type SignUpResult struct {
	User    *User
	Session *Session
}

// Error carries the provider's message verbatim so callers can surface it.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the provider's auth endpoints.
type Client struct {
	httpClient *http.Client
	authURL    string
	anonKey    string
}

// NewClient builds an identity client for the given project URL and anon key.
func NewClient(httpClient *http.Client, projectURL, anonKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	base := strings.TrimRight(projectURL, "/")
	if !strings.HasSuffix(base, "/auth/v1") {
		base += "/auth/v1"
	}
	return &Client{httpClient: httpClient, authURL: base, anonKey: anonKey}
}

// SignUp creates a new account with role metadata attached.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*SignUpResult, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	body, err := c.do(ctx, http.MethodPost, "/signup", payload, "")
	if err != nil {
		return nil, err
	}

	// The response is a session when autoconfirm is on, otherwise a bare user.
	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	if session.User != nil {
		return &SignUpResult{User: session.User, Session: &session}, nil
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	return &SignUpResult{User: &user}, nil
}

// SignInWithPassword authenticates with email/password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", payload, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// GetUser resolves the account behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/user", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// VerifyOTP confirms an email verification or recovery token hash.
func (c *Client) VerifyOTP(ctx context.Context, tokenHash, otpType string) (*Session, error) {
	payload := map[string]string{"token_hash": tokenHash, "type": otpType}
	body, err := c.do(ctx, http.MethodPost, "/verify", payload, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// ResetPasswordForEmail triggers a password-reset email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	_, err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email}, "")
	return err
}

// UpdateUserPassword sets a new password for the token's account.
func (c *Client) UpdateUserPassword(ctx context.Context, accessToken, password string) error {
	_, err := c.do(ctx, http.MethodPut, "/user", map[string]string{"password": password}, accessToken)
	return err
}

// ExchangeCodeForSession trades a PKCE auth code for a session.
func (c *Client) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	payload := map[string]string{"auth_code": code}
	body, err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", payload, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// SignOut revokes the token's session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil, accessToken)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any, accessToken string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.authURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseError(body, resp.StatusCode)
	}
	return body, nil
}

// parseError extracts the provider's message from the known error shapes.
func parseError(body []byte, statusCode int) *Error {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	message := fmt.Sprintf("identity provider returned status %d", statusCode)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Msg != "":
			message = payload.Msg
		case payload.Message != "":
			message = payload.Message
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		case payload.ErrorField != "":
			message = payload.ErrorField
		}
	}
	return &Error{StatusCode: statusCode, Message: message}
}
