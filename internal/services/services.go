// package services defines interface Service for interacting with the SquadCast HTTP API
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a SquadCast body that is missing required fields.
var ErrMalformedResponse = errors.New("malformed SquadCast response")

// Service defines the operations the conferencing app needs from the SquadCast API.
//
// Every call is authenticated with the user's decrypted API key.
type Service interface {
	// ListShows retrieves all shows visible to the API key.
	ListShows(ctx context.Context, apiKey string) ([]Show, error)

	// CreateSession schedules a recording session.
	// Any status other than 200 is reported as an [*APIError].
	CreateSession(ctx context.Context, apiKey string, form *Form) (*NewSession, error)

	// UpdateSession replaces the details of an existing session.
	UpdateSession(ctx context.Context, apiKey, sessionID string, form *Form) error

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, apiKey, sessionID string) error

	// Name returns the name of the service
	Name() string
}

// Show is a SquadCast show reduced to the fields the app displays
type Show struct {
	ID   string
	Name string
}

// ShowDetails is the nested descriptive block of a show payload
type ShowDetails struct {
	ShowName string `json:"showName"`
}

// SquadCastShow is one element of the GET /v2/shows response
type SquadCastShow struct {
	ShowID      string      `json:"showID"`
	ShowDetails ShowDetails `json:"showDetails"`
}

// UnmarshalJSON requires showID and showDetails.showName to be strings.
func (s *SquadCastShow) UnmarshalJSON(data []byte) error {
	var wire struct {
		ShowID      *string `json:"showID"`
		ShowDetails *struct {
			ShowName *string `json:"showName"`
		} `json:"showDetails"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.ShowID == nil:
		return fmt.Errorf("%w: show without showID", ErrMalformedResponse)
	case wire.ShowDetails == nil || wire.ShowDetails.ShowName == nil:
		return fmt.Errorf("%w: show %q without showDetails.showName", ErrMalformedResponse, *wire.ShowID)
	}

	s.ShowID = *wire.ShowID
	s.ShowDetails = ShowDetails{ShowName: *wire.ShowDetails.ShowName}
	return nil
}

// NewSession is the response body of POST /v2/sessions
type NewSession struct {
	SessionID string `json:"sessionID"`
	ShowID    string `json:"showID"`
}

// UnmarshalJSON requires sessionID and showID to be strings.
func (n *NewSession) UnmarshalJSON(data []byte) error {
	var wire struct {
		SessionID *string `json:"sessionID"`
		ShowID    *string `json:"showID"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.SessionID == nil || wire.ShowID == nil {
		return fmt.Errorf("%w: session needs sessionID and showID", ErrMalformedResponse)
	}

	n.SessionID = *wire.SessionID
	n.ShowID = *wire.ShowID
	return nil
}

// decodeShows parses a GET /v2/shows body, which must be an array.
func decodeShows(body []byte) ([]SquadCastShow, error) {
	var raw []SquadCastShow
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: shows is not an array", ErrMalformedResponse)
	}
	return raw, nil
}

// DedupeShows collapses shows by ID.
//
// Each ID keeps the position of its first occurrence and the name of its last.
func DedupeShows(raw []SquadCastShow) []Show {
	index := make(map[string]int, len(raw))
	shows := make([]Show, 0, len(raw))

	for _, s := range raw {
		if i, ok := index[s.ShowID]; ok {
			shows[i].Name = s.ShowDetails.ShowName
			continue
		}
		index[s.ShowID] = len(shows)
		shows = append(shows, Show{ID: s.ShowID, Name: s.ShowDetails.ShowName})
	}
	return shows
}
