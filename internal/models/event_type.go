package models

import (
	"encoding/json"
	"fmt"
)

// AppData is the per-event-type setting block every app card shares.
type AppData struct {
	Enabled bool `json:"enabled"`
}

// SquadCastAppData extends [AppData] with the show new sessions are filed under.
type SquadCastAppData struct {
	AppData
	ShowID string `json:"showID,omitempty"`
}

// EventTypeMetadata is the JSON document stored with an event type.
//
// Keys other than "apps" are kept verbatim so writes do not drop platform data.
type EventTypeMetadata struct {
	Apps  map[string]json.RawMessage `json:"-"`
	extra map[string]json.RawMessage
}

// UnmarshalJSON implements [json.Unmarshaler].
func (m *EventTypeMetadata) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	m.Apps = map[string]json.RawMessage{}
	if raw, ok := fields["apps"]; ok {
		if err := json.Unmarshal(raw, &m.Apps); err != nil {
			return fmt.Errorf("invalid apps metadata: %w", err)
		}
		delete(fields, "apps")
	}
	m.extra = fields
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (m EventTypeMetadata) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(m.extra)+1)
	for k, v := range m.extra {
		fields[k] = v
	}
	if len(m.Apps) > 0 {
		fields["apps"] = m.Apps
	}
	return json.Marshal(fields)
}

// EventType is a bookable meeting template owned by a user.
type EventType struct {
	base
	userID   string
	title    string
	length   int
	metadata EventTypeMetadata
}

// NewEventType creates an event type with empty metadata.
func NewEventType(sequence int, userID, title string, length int) *EventType {
	return &EventType{base: newBase(sequence), userID: userID, title: title, length: length}
}

func (e *EventType) UserID() string              { return e.userID }
func (e *EventType) Title() string               { return e.title }
func (e *EventType) Length() int                 { return e.length }
func (e *EventType) Metadata() EventTypeMetadata { return e.metadata }

func (e *EventType) SetTitle(title string)                  { e.title = title }
func (e *EventType) SetLength(length int)                   { e.length = length }
func (e *EventType) SetMetadata(metadata EventTypeMetadata) { e.metadata = metadata }

// AppData decodes the settings stored for slug into v.
//
// It reports false, without touching v, when the app has no settings on this event type.
func (e *EventType) AppData(slug string, v any) (bool, error) {
	raw, ok := e.metadata.Apps[slug]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("invalid %s app data: %w", slug, err)
	}
	return true, nil
}

// SetAppData replaces the settings stored for slug.
func (e *EventType) SetAppData(slug string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s app data: %w", slug, err)
	}
	if e.metadata.Apps == nil {
		e.metadata.Apps = map[string]json.RawMessage{}
	}
	e.metadata.Apps[slug] = raw
	return nil
}

// SquadCastShowID returns the show new sessions are filed under.
//
// It is "" when no show is set or the app is disabled on this event type,
// leaving SquadCast to use the account's default show. The stored show is
// kept so re-enabling restores it.
func (e *EventType) SquadCastShowID() (string, error) {
	var data SquadCastAppData
	ok, err := e.AppData(SquadCast.Slug, &data)
	if err != nil || !ok || !data.Enabled {
		return "", err
	}
	return data.ShowID, nil
}

func (e *EventType) Validate() error {
	if e.userID == "" {
		return fmt.Errorf("event type owner is required")
	}
	if e.title == "" {
		return fmt.Errorf("event type title is required")
	}
	if e.length <= 0 {
		return fmt.Errorf("event type length must be positive, got %d", e.length)
	}
	return nil
}
