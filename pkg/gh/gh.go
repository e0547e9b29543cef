// Package gh is a small typed client for the GitHub REST API, covering
// the calls needed to publish a local file set to a repository.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Error constants
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// APIError carries the remote status code so callers can classify
// failures structurally instead of scraping message text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err means the target path already exists.
// Classification is structural first: HTTP 409, or GitHub's 422 answer
// on the contents API when no sha is supplied for an existing file.
// Substring matching on the message is a last resort for errors that
// carry no status code at all.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusConflict {
			return true
		}
		return apiErr.StatusCode == http.StatusUnprocessableEntity &&
			strings.Contains(strings.ToLower(apiErr.Message), "exists")
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "409") || strings.Contains(msg, "already exists")
}

// Client talks to the GitHub REST API on behalf of a single token.
type Client struct {
	BaseURL string
	Token   string
}

// New returns a Client. An empty baseURL selects the public API;
// tests point it at a local server.
func New(token string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{BaseURL: baseURL, Token: token}
}

// do performs one authenticated API call, rebuilding the request on
// each retry attempt so payload bodies can be resent.
func (c *Client) do(ctx context.Context, method string, endpoint string, payload interface{}, result interface{}) error {
	var raw []byte
	var err error

	if payload != nil {
		raw, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s payload: %v", method, endpoint, err)
		}
	}

	resp, err := withRetry(ctx, func() (*http.Response, error) {
		var body io.Reader
		if raw != nil {
			body = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/vnd.github+json")
		if c.Token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
		}
		if raw != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &retryableStatusError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %v", method, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return ErrRateLimitExceeded
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %v", method, endpoint, err)
		}
	}

	return nil
}

// apiMessage extracts GitHub's "message" field, falling back to the
// raw body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	return strings.TrimSpace(string(body))
}

// escapePath escapes each path segment, preserving the separators the
// contents API expects.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
