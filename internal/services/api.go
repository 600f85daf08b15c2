// Raw HTTP plumbing shared by the SquadCast client
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/squadcast/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const formContentType = "application/x-www-form-urlencoded; charset=utf-8"

// APIError reports a SquadCast response with an unexpected status.
//
// It unwraps to [shared.ErrAPIRequest].
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("squadcast API error: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// StatusCode extracts the provider status from err, or 0 when err is not an [*APIError].
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the status is 2xx
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// apiClient performs bearer-authenticated requests against a base URL.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// bearerClient wraps the base client with a static token source so every request carries "Authorization: Bearer <apiKey>".
func (a *apiClient) bearerClient(ctx context.Context, apiKey string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}))
}

// do sends a request and returns the raw response.
//
// A non-nil form is sent as the request body with [formContentType].
// Status codes are not interpreted here.
func (a *apiClient) do(ctx context.Context, apiKey, method, path string, form *Form) (*APIResponse, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: empty api key", shared.ErrMissingCredentials)
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", formContentType)
	}

	resp, err := a.bearerClient(ctx, apiKey).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}
