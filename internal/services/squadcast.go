// SquadCast API implementation of [Service]
//
// Endpoints follow https://api.squadcast.fm/v2 as used by the conferencing app.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production SquadCast API
	DefaultBaseURL   = "https://api.squadcast.fm"
	defaultRateLimit = 5.0
	defaultTimeout   = 30 * time.Second
)

// SquadCastOpts configures a [SquadCastService]. Zero values select defaults.
type SquadCastOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	RateLimit  float64 // Requests per second
	Timeout    time.Duration
	Logger     *log.Logger
}

// SquadCastService implements [Service] over the SquadCast REST API.
//
// The API key is supplied per call, so one service serves every installed credential.
type SquadCastService struct {
	api    *apiClient
	logger *log.Logger
}

// NewSquadCastService creates a SquadCast client.
func NewSquadCastService(opts SquadCastOpts) *SquadCastService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SquadCastService{
		api: &apiClient{
			baseURL:    strings.TrimRight(opts.BaseURL, "/"),
			httpClient: opts.HTTPClient,
			limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		},
		logger: shared.WithLogger(opts.Logger, "service", "squadcast"),
	}
}

func (s *SquadCastService) Name() string {
	return "SquadCast"
}

// BaseURL returns the API root requests are sent to
func (s *SquadCastService) BaseURL() string {
	return s.api.baseURL
}

// ListShows retrieves the shows visible to apiKey, deduplicated by ID.
func (s *SquadCastService) ListShows(ctx context.Context, apiKey string) ([]Show, error) {
	const path = "/v2/shows"

	resp, err := s.api.do(ctx, apiKey, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		s.logger.Warn("list shows rejected", "status", resp.StatusCode)
		return nil, &APIError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	raw, err := decodeShows(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shows: %w", err)
	}

	shows := DedupeShows(raw)
	s.logger.Debug("listed shows", "count", len(shows))
	return shows, nil
}

// CreateSession posts form to /v2/sessions.
//
// Only 200 counts as success; anything else returns an [*APIError].
func (s *SquadCastService) CreateSession(ctx context.Context, apiKey string, form *Form) (*NewSession, error) {
	const path = "/v2/sessions"

	resp, err := s.api.do(ctx, apiKey, http.MethodPost, path, form)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("create session rejected", "status", resp.StatusCode)
		return nil, &APIError{Method: http.MethodPost, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var session NewSession
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	s.logger.Debug("created session", "session_id", session.SessionID, "show_id", session.ShowID)
	return &session, nil
}

// UpdateSession sends form to PUT /v2/sessions/{id}.
func (s *SquadCastService) UpdateSession(ctx context.Context, apiKey, sessionID string, form *Form) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}

	path := "/v2/sessions/" + url.PathEscape(sessionID)

	resp, err := s.api.do(ctx, apiKey, http.MethodPut, path, form)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &APIError{Method: http.MethodPut, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	s.logger.Debug("updated session", "session_id", sessionID)
	return nil
}

// DeleteSession sends DELETE /v2/sessions/{id}.
func (s *SquadCastService) DeleteSession(ctx context.Context, apiKey, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}

	path := "/v2/sessions/" + url.PathEscape(sessionID)

	resp, err := s.api.do(ctx, apiKey, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &APIError{Method: http.MethodDelete, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	s.logger.Debug("deleted session", "session_id", sessionID)
	return nil
}
