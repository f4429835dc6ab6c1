package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"taskmaster-tui/internal/model"
)

// TokenResponse is the login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, username, password string) (*model.User, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var user model.User
	if err := c.post(ctx, "/api/v1/users/", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The endpoint follows
// the OAuth2 password flow and expects a form-encoded body; it is the
// one call that never carries a bearer token. On success the token is
// attached to the client for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/v1/users/login/",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing login request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     decodeDetail(respBody, resp.StatusCode),
		}
	}

	var token TokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("unmarshaling login response: %w", err)
	}

	c.SetToken(token.AccessToken)
	return &token, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/v1/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate holds the optional profile fields for UpdateProfile.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// UpdateProfile updates the authenticated user's display name and/or
// avatar URL.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.put(ctx, "/api/v1/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
