package models

import (
	"fmt"
	"time"
)

// Person is an organizer or attendee of a booking.
type Person struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	TimeZone string `json:"timeZone"`
}

// CalendarEvent is the platform's description of a booking handed to video adapters.
type CalendarEvent struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Organizer   Person    `json:"organizer"`
	Attendees   []Person  `json:"attendees"`
	EventTypeID string    `json:"eventTypeId,omitempty"`
}

// Validate checks the fields every adapter depends on.
func (e CalendarEvent) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("event start and end times are required")
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("event ends before it starts")
	}
	if _, err := time.LoadLocation(e.Organizer.TimeZone); err != nil {
		return fmt.Errorf("invalid organizer time zone %q: %w", e.Organizer.TimeZone, err)
	}
	return nil
}

// WithOrganizer makes user the organizer, keeping any email, name or time zone already set.
func (e CalendarEvent) WithOrganizer(user *User) CalendarEvent {
	e.Organizer.ID = user.ID()
	if e.Organizer.Email == "" {
		e.Organizer.Email = user.Email()
	}
	if e.Organizer.Name == "" {
		e.Organizer.Name = user.Name()
	}
	if e.Organizer.TimeZone == "" {
		e.Organizer.TimeZone = user.TimeZone()
	}
	return e
}

// VideoCallData is what an adapter reports about a remote meeting.
//
// The zero value signals that no meeting was created.
type VideoCallData struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Password string `json:"password"`
	URL      string `json:"url"`
}

// Empty reports whether no meeting is described.
func (v VideoCallData) Empty() bool {
	return v == VideoCallData{}
}

// PartialReference identifies a previously created meeting. All fields are optional.
type PartialReference struct {
	MeetingID       string `json:"meetingId,omitempty"`
	MeetingPassword string `json:"meetingPassword,omitempty"`
	MeetingURL      string `json:"meetingUrl,omitempty"`
}

// BookingReference persists the meeting an adapter created for a booking.
type BookingReference struct {
	base
	bookingUID      string
	userID          string
	refType         string
	meetingID       string
	meetingPassword string
	meetingURL      string
	credentialID    string
}

// NewBookingReference records call data returned for bookingUID, owned by the organizer userID.
func NewBookingReference(sequence int, bookingUID, userID, credentialID string, call VideoCallData) *BookingReference {
	return &BookingReference{
		base:            newBase(sequence),
		bookingUID:      bookingUID,
		userID:          userID,
		refType:         call.Type,
		meetingID:       call.ID,
		meetingPassword: call.Password,
		meetingURL:      call.URL,
		credentialID:    credentialID,
	}
}

func (b *BookingReference) BookingUID() string      { return b.bookingUID }
func (b *BookingReference) UserID() string          { return b.userID }
func (b *BookingReference) Type() string            { return b.refType }
func (b *BookingReference) MeetingID() string       { return b.meetingID }
func (b *BookingReference) MeetingPassword() string { return b.meetingPassword }
func (b *BookingReference) MeetingURL() string      { return b.meetingURL }
func (b *BookingReference) CredentialID() string    { return b.credentialID }

// SetCall replaces the meeting details, e.g. after an update.
func (b *BookingReference) SetCall(call VideoCallData) {
	b.refType = call.Type
	b.meetingID = call.ID
	b.meetingPassword = call.Password
	b.meetingURL = call.URL
}

// Call returns the stored meeting as call data.
func (b *BookingReference) Call() VideoCallData {
	return VideoCallData{Type: b.refType, ID: b.meetingID, Password: b.meetingPassword, URL: b.meetingURL}
}

// Partial converts the reference into the form adapters accept.
func (b *BookingReference) Partial() PartialReference {
	return PartialReference{MeetingID: b.meetingID, MeetingPassword: b.meetingPassword, MeetingURL: b.meetingURL}
}

func (b *BookingReference) Validate() error {
	if b.bookingUID == "" {
		return fmt.Errorf("booking uid is required")
	}
	if b.userID == "" {
		return fmt.Errorf("organizer user id is required")
	}
	if b.refType == "" {
		return fmt.Errorf("reference type is required")
	}
	return nil
}
