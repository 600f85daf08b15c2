package video

import (
	"context"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
)

// BusySlot is a period during which the remote calendar is unavailable
type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// VideoAPIAdapter creates, updates and deletes remote meetings for bookings.
type VideoAPIAdapter interface {
	// GetAvailability reports busy periods. Conferencing apps without calendars return none.
	GetAvailability(ctx context.Context, from, to time.Time) ([]BusySlot, error)

	CreateMeeting(ctx context.Context, event models.CalendarEvent) (models.VideoCallData, error)

	// UpdateMeeting reschedules the meeting identified by ref.
	UpdateMeeting(ctx context.Context, ref models.PartialReference, event models.CalendarEvent) (models.VideoCallData, error)

	// DeleteMeeting removes the meeting with the given remote id.
	DeleteMeeting(ctx context.Context, uid string) error
}

// EventTypeFinder loads an event type owned by a user
type EventTypeFinder interface {
	GetForUser(id, userID string) (*models.EventType, error)
}

// AdapterFactory builds the adapter for an installed credential
type AdapterFactory interface {
	For(cred *models.Credential) VideoAPIAdapter
}
