package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/squadcast/internal/formatter"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BookingCreate creates the SquadCast session for the booking in --file.
func (r *Runner) BookingCreate(ctx context.Context, cmd *cli.Command) error {
	return r.runBookingEvent(ctx, cmd, tasks.BookingCreated)
}

// BookingReschedule updates the SquadCast session for the booking in --file.
func (r *Runner) BookingReschedule(ctx context.Context, cmd *cli.Command) error {
	return r.runBookingEvent(ctx, cmd, tasks.BookingRescheduled)
}

// BookingCancel deletes the sessions of one or more bookings.
//
// Several UIDs are cancelled concurrently through [tasks.Manager.BulkCancel].
func (r *Runner) BookingCancel(ctx context.Context, cmd *cli.Command) error {
	uids := cmd.StringSlice("uid")
	if len(uids) == 0 {
		return fmt.Errorf("%w: --uid", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}
	manager := r.manager(s)

	if len(uids) == 1 {
		var result *tasks.LifecycleResult
		err := r.withProgress(func(prog chan<- tasks.ProgressUpdate) error {
			var err error
			result, err = manager.Cancelled(ctx, prog, user.ID(), uids[0])
			return err
		})
		if err != nil {
			return fmt.Errorf("cancel failed: %w", err)
		}
		return r.writeResult(uids[0], result)
	}

	var result *tasks.BulkCancelResult
	err = r.withProgress(func(prog chan<- tasks.ProgressUpdate) error {
		var err error
		result, err = manager.BulkCancel(ctx, prog, user.ID(), uids, tasks.BulkCancelOpts{
			NumWorkers: cmd.Int("workers"),
			RateLimit:  cmd.Float("rate"),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("bulk cancel failed: %w", err)
	}

	if err := r.writeListing(formatter.CancelListing(result), format); err != nil {
		return err
	}
	if result.Failed > 0 && format == formatter.FormatTable {
		return r.writePlain("%s\n", r.palette.Err(fmt.Sprintf("✗ %d bookings could not be cancelled", result.Failed)))
	}
	return nil
}

func (r *Runner) runBookingEvent(ctx context.Context, cmd *cli.Command, trigger tasks.Trigger) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	event, err := r.readEvent(cmd.String("file"))
	if err != nil {
		return err
	}
	event = event.WithOrganizer(user)

	manager := r.manager(s)

	var result *tasks.LifecycleResult
	err = r.withProgress(func(prog chan<- tasks.ProgressUpdate) error {
		var err error
		result, err = manager.Handle(ctx, prog, trigger, event)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", trigger, err)
	}

	return r.writeResult(event.UID, result)
}

// readEvent decodes a booking from path, or from the runner's input when path is "-".
func (r *Runner) readEvent(path string) (models.CalendarEvent, error) {
	var event models.CalendarEvent

	var src io.Reader = r.input
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return event, fmt.Errorf("failed to open booking file: %w", err)
		}
		defer f.Close()
		src = f
	}

	if err := json.NewDecoder(src).Decode(&event); err != nil {
		return event, fmt.Errorf("%w: booking JSON: %v", shared.ErrInvalidInput, err)
	}
	return event, nil
}

// withProgress runs fn with a progress channel whose updates are printed as they arrive.
func (r *Runner) withProgress(fn func(chan<- tasks.ProgressUpdate) error) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", r.palette.Progress(update))
		}
	}()

	err := fn(progressCh)
	close(progressCh)
	<-done
	return err
}

func (r *Runner) writeResult(uid string, result *tasks.LifecycleResult) error {
	switch {
	case result.Trigger == tasks.BookingCancelled:
		return r.writePlain("%s\n", r.palette.OK("✓ Booking "+uid+" cancelled"))
	case result.Call.Empty():
		return r.writePlain("%s\n", r.palette.Warn("! No SquadCast session for booking "+uid))
	}

	if result.Existing {
		r.writePlain("%s\n", r.palette.Help("Booking already has a session; nothing created"))
	}
	if result.Fallback {
		r.writePlain("%s\n", r.palette.Help("No existing session; created a new one"))
	}

	r.writePlain("%s\n", r.palette.OK("✓ Booking "+uid+": "+string(result.Trigger)))
	r.writePlain("Session: %s\n", result.Call.ID)
	return r.writePlain("URL:     %s\n", result.Call.URL)
}
