package models

import (
	"encoding/json"
	"fmt"
)

// Credential is an installed app's stored secret for a user.
//
// The key is an opaque JSON object; for SquadCast it is {"apiKey": "<ciphertext>"}.
type Credential struct {
	base
	credType string
	key      json.RawMessage
	userID   string
	teamID   *string
	appID    string
	invalid  bool
}

// NewCredential creates a credential owned by userID, with no team.
func NewCredential(sequence int, credType, appID, userID string, key json.RawMessage) *Credential {
	return &Credential{
		base:     newBase(sequence),
		credType: credType,
		appID:    appID,
		userID:   userID,
		key:      key,
	}
}

// NewAPIKeyCredential builds the key JSON from an already encrypted API key.
func NewAPIKeyCredential(app AppMeta, userID, encryptedAPIKey string) (*Credential, error) {
	key, err := json.Marshal(struct {
		APIKey string `json:"apiKey"`
	}{APIKey: encryptedAPIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential key: %w", err)
	}
	return NewCredential(0, app.Type, app.Slug, userID, key), nil
}

func (c *Credential) Type() string         { return c.credType }
func (c *Credential) Key() json.RawMessage { return c.key }
func (c *Credential) UserID() string       { return c.userID }
func (c *Credential) TeamID() *string      { return c.teamID }
func (c *Credential) AppID() string        { return c.appID }
func (c *Credential) Invalid() bool        { return c.invalid }

func (c *Credential) SetKey(key json.RawMessage) { c.key = key }
func (c *Credential) SetTeamID(teamID *string)   { c.teamID = teamID }
func (c *Credential) SetInvalid(invalid bool)    { c.invalid = invalid }

// EncryptedAPIKey extracts the "apiKey" string from the key JSON.
//
// A missing key, a non-object key or a non-string apiKey is an error.
func (c *Credential) EncryptedAPIKey() (string, error) {
	if len(c.key) == 0 {
		return "", fmt.Errorf("credential %s has no key", c.id)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.key, &fields); err != nil {
		return "", fmt.Errorf("credential key is not an object: %w", err)
	}

	raw, ok := fields["apiKey"]
	if !ok {
		return "", fmt.Errorf("credential key missing apiKey")
	}

	var apiKey string
	if err := json.Unmarshal(raw, &apiKey); err != nil {
		return "", fmt.Errorf("credential apiKey is not a string: %w", err)
	}
	return apiKey, nil
}

func (c *Credential) Validate() error {
	if c.credType == "" {
		return fmt.Errorf("credential type is required")
	}
	if c.appID == "" {
		return fmt.Errorf("credential app id is required")
	}
	if c.userID == "" && c.teamID == nil {
		return fmt.Errorf("credential must belong to a user or a team")
	}
	if len(c.key) > 0 && !json.Valid(c.key) {
		return fmt.Errorf("credential key is not valid JSON")
	}
	return nil
}
