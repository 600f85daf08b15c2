package video

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "03:04 PM"
)

// formAction selects how session times are written.
type formAction int

const (
	formCreate formAction = iota // clock times in the organizer's zone
	formUpdate                   // clock times in UTC
)

// buildForm encodes event as a SquadCast session form.
//
// date is always the UTC date of the start; timeZone is always the organizer's.
func (a *SquadCastAdapter) buildForm(event models.CalendarEvent, action formAction) (*services.Form, error) {
	loc, err := time.LoadLocation(event.Organizer.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: organizer time zone %q: %w", shared.ErrInvalidInput, event.Organizer.TimeZone, err)
	}

	clock := loc
	if action == formUpdate {
		clock = time.UTC
	}
	start := event.StartTime.In(clock)
	end := event.EndTime.In(clock)

	form := services.NewForm()
	form.Add("sessionTitle", event.Title)
	form.Add("date", event.StartTime.UTC().Format(dateLayout))
	form.Add("startTime", start.Format(clockLayout))
	form.Add("endTime", end.Format(clockLayout))
	form.Add("timeZone", loc.String())

	showID, err := a.showID(event)
	if err != nil {
		return nil, err
	}
	if showID != "" {
		form.Add("showID", showID)
	}

	for _, attendee := range event.Attendees {
		form.Add("stage", attendee.Email)
	}

	return form, nil
}

// showID resolves the show configured on the event's type.
//
// A missing event type or owner skips the lookup, and an event type that no longer exists has no show.
func (a *SquadCastAdapter) showID(event models.CalendarEvent) (string, error) {
	if a.eventTypes == nil || event.EventTypeID == "" || event.Organizer.ID == "" {
		return "", nil
	}

	et, err := a.eventTypes.GetForUser(event.EventTypeID, event.Organizer.ID)
	if errors.Is(err, shared.ErrNotFound) {
		a.logger.Debug("event type not found, omitting show", "event_type_id", event.EventTypeID)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load event type: %w", err)
	}

	return et.SquadCastShowID()
}
