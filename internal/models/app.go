package models

import "fmt"

// AppLocation describes the conferencing location the app contributes to event types.
type AppLocation struct {
	LinkType string `json:"linkType"`
	Type     string `json:"type"`
	Label    string `json:"label"`
}

// AppMeta is the static description of an installable app.
type AppMeta struct {
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Type               string      `json:"type"`
	Variant            string      `json:"variant"`
	ExtendsFeature     string      `json:"extendsFeature"`
	Categories         []string    `json:"categories"`
	Logo               string      `json:"logo"`
	Publisher          string      `json:"publisher"`
	URL                string      `json:"url"`
	Slug               string      `json:"slug"`
	IsGlobal           bool        `json:"isGlobal"`
	Email              string      `json:"email"`
	Location           AppLocation `json:"location"`
	ConcurrentMeetings bool        `json:"concurrentMeetings"`
}

// SquadCast describes the SquadCast conferencing app.
var SquadCast = AppMeta{
	Name:               "SquadCast",
	Description:        "SquadCast is the best way to record remote podcast interviews in studio quality audio and video.",
	Type:               "squadcast_video",
	Variant:            "conferencing",
	ExtendsFeature:     "EventType",
	Categories:         []string{"conferencing"},
	Logo:               "icon.svg",
	Publisher:          "Nick Welsh",
	URL:                "https://squadcast.fm",
	Slug:               "squadcast",
	IsGlobal:           false,
	Email:              "howcanwehelp@integrateforgood.org",
	ConcurrentMeetings: true,
	Location: AppLocation{
		LinkType: "dynamic",
		Type:     "integrations:squadcast",
		Label:    "SquadCast Video",
	},
}

// InstalledAppPath is where the platform lists installed apps of this variant, highlighting this one.
func (a AppMeta) InstalledAppPath() string {
	return fmt.Sprintf("/apps/installed/%s?hl=%s", a.Variant, a.Slug)
}

// SetupPath is the app's settings form.
func (a AppMeta) SetupPath() string {
	return fmt.Sprintf("/apps/%s/setup", a.Slug)
}

// IntegrationPath returns the API route for one of the app's endpoints (e.g. "add", "capture").
func (a AppMeta) IntegrationPath(endpoint string) string {
	return fmt.Sprintf("/api/integrations/%s/%s", a.Slug, endpoint)
}
