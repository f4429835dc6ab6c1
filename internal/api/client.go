// Package api is the HTTP/JSON client for the TaskMaster REST API. All
// persistence and identity operations are delegated to the server; this
// client handles Bearer token authentication, JSON marshaling, and the
// server's error envelope. There are no automatic retries: every retry
// is a user-initiated repeat of the action.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AuthError indicates that the bearer token was rejected (HTTP 401).
// The app reacts by clearing local credentials and returning to the
// login view; there is no token refresh flow.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response carrying the server's detail message.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

// Client is a thin HTTP client for the TaskMaster API. The zero token
// means unauthenticated; SetToken is called after login and ClearToken
// on logout or auth expiry.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL. The timeout
// bounds every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.token = "" }

// Token returns the current bearer token, or "" when unauthenticated.
func (c *Client) Token() string { return c.token }

// HasToken reports whether a bearer token is set.
func (c *Client) HasToken() bool { return c.token != "" }

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// put performs an HTTP PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// delete performs an HTTP DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{
			Message: "session expired or invalid, please log in again",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     decodeDetail(respBody, resp.StatusCode),
		}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// validationError is one entry of the server's array-form error detail.
type validationError struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// decodeDetail extracts the user-facing message from the server's error
// envelope {detail: string | array}. The array form (field validation
// errors) is joined into a single comma-separated message.
func decodeDetail(body []byte, statusCode int) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return fmt.Sprintf("unexpected status %d", statusCode)
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var list []validationError
	if err := json.Unmarshal(envelope.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			switch {
			case e.Msg != "":
				msgs = append(msgs, e.Msg)
			case e.Message != "":
				msgs = append(msgs, e.Message)
			default:
				msgs = append(msgs, "invalid input")
			}
		}
		return strings.Join(msgs, ", ")
	}

	return string(envelope.Detail)
}
