package models

import (
	"fmt"
	"strings"
	"time"
)

// User is a platform account that can install the app and own event types.
type User struct {
	base
	email    string
	name     string
	timeZone string
}

// NewUser creates a [User] in the UTC time zone.
func NewUser(sequence int, email, name string) *User {
	return &User{base: newBase(sequence), email: email, name: name, timeZone: "UTC"}
}

func (u *User) Email() string    { return u.email }
func (u *User) Name() string     { return u.name }
func (u *User) TimeZone() string { return u.timeZone }

func (u *User) SetEmail(email string) { u.email = email }
func (u *User) SetName(name string)   { u.name = name }

// SetTimeZone sets the IANA time zone used when scheduling on the user's behalf.
func (u *User) SetTimeZone(tz string) { u.timeZone = tz }

// Validate checks the email shape and that the time zone can be loaded.
func (u *User) Validate() error {
	if u.email == "" || !strings.Contains(u.email, "@") {
		return fmt.Errorf("invalid email: %q", u.email)
	}
	if _, err := time.LoadLocation(u.timeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", u.timeZone, err)
	}
	return nil
}
