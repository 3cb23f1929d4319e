// Package supabase is a thin client for the hosted GoTrue auth endpoints that
// back admin sessions. Only the password grant, user lookup, and logout
// operations are covered; persistence goes through the database layer, not
// the REST surface.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config configures the auth client.
type Config struct {
	ProjectURL string
	AnonKey    string
	Timeout    time.Duration
}

// Session is an authenticated admin session as issued by GoTrue.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// User is the authenticated identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthError is a non-2xx response from the auth service.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth service returned %d: %s", e.Status, e.Message)
}

// Transient reports whether the failure is worth retrying; rejections with a
// 4xx status are definitive.
func (e *AuthError) Transient() bool {
	return e.Status >= 500
}

// Client calls the GoTrue REST endpoints of a Supabase project.
type Client struct {
	base    string
	anonKey string
	http    *http.Client
}

// New creates an auth client for the configured project.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(cfg.ProjectURL, "/") + "/auth/v1",
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, err
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// GetUser resolves the identity behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// SignOut invalidates the session behind an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{Status: resp.StatusCode, Message: errorMessage(payload)}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// errorMessage digs the human-readable message out of a GoTrue error body.
func errorMessage(payload []byte) string {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		for _, msg := range []string{body.ErrorDescription, body.Msg, body.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(payload))
}
