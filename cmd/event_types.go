package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/urfave/cli/v3"
)

// EventTypeCreate creates an event type owned by the user.
func (r *Runner) EventTypeCreate(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	et := models.NewEventType(0, user.ID(), cmd.String("title"), cmd.Int("length"))
	if err := s.eventTypes.Create(et); err != nil {
		return fmt.Errorf("failed to create event type: %w", err)
	}

	r.writePlain("%s\n", r.palette.OK("✓ Event type created: "+et.Title()))
	return r.writePlain("ID: %s\n", et.ID())
}

// EventTypeShow prints an event type with its SquadCast app settings.
func (r *Runner) EventTypeShow(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	et, err := s.eventTypes.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	var data models.SquadCastAppData
	if _, err := et.AppData(models.SquadCast.Slug, &data); err != nil {
		return err
	}

	showID := data.ShowID
	if showID == "" {
		showID = "-"
	}

	rows := [][]string{
		{"ID", et.ID()},
		{"Title", et.Title()},
		{"Length", strconv.Itoa(et.Length()) + "m"},
		{"Owner", et.UserID()},
		{"SquadCast", strconv.FormatBool(data.Enabled)},
		{"Show", showID},
	}
	return r.writePlain("%s\n", r.palette.Table([]string{"Field", "Value"}, rows))
}

// EventTypeSetShow stores the show new sessions for this event type are filed under.
func (r *Runner) EventTypeSetShow(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	data := models.SquadCastAppData{
		AppData: models.AppData{Enabled: !cmd.Bool("disable")},
		ShowID:  cmd.String("show"),
	}

	et, err := s.eventTypes.SetAppData(cmd.String("id"), user.ID(), models.SquadCast.Slug, data)
	if err != nil {
		return fmt.Errorf("failed to update event type: %w", err)
	}

	if data.ShowID == "" {
		return r.writePlain("%s\n", r.palette.OK("✓ Show cleared on "+et.Title()))
	}
	return r.writePlain("%s\n", r.palette.OK("✓ "+et.Title()+" now files sessions under show "+data.ShowID))
}
