// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/squadcast/internal/formatter"
	"github.com/urfave/cli/v3"
)

func emailFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "email",
		Aliases:  []string{"e"},
		Usage:    "Email of the user to act as",
		Required: true,
	}
}

func formatFlag() *cli.StringFlag {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (" + strings.Join(names, ", ") + ")",
		Value:   string(formatter.FormatTable),
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations, creating the config file if needed",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the default config file",
				Action: r.SetupConfig,
			},
			{
				Name:   "status",
				Usage:  "List applied database migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand runs the app's HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the app's HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the setup page in a browser",
			},
		},
		Action: r.Serve,
	}
}

// userCommand manages platform users and their session tokens
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user and print a session token",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "tz",
						Usage: "IANA time zone",
						Value: "UTC",
					},
				},
				Action: r.UserCreate,
			},
			{
				Name:   "token",
				Usage:  "Issue a new session token for a user",
				Flags:  []cli.Flag{emailFlag()},
				Action: r.UserToken,
			},
		},
	}
}

// credentialCommand manages stored SquadCast API keys
func credentialCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "credential",
		Aliases: []string{"cred"},
		Usage:   "Manage SquadCast credentials",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Encrypt and store a SquadCast API key for a user",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{
						Name:     "api-key",
						Usage:    "SquadCast API key",
						Sources:  cli.EnvVars("SQUADCAST_API_KEY"),
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "List shows with the key before storing it",
					},
				},
				Action: r.CredentialAdd,
			},
			{
				Name:  "list",
				Usage: "List stored credentials (keys are never printed)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Only list credentials of this user",
					},
					formatFlag(),
				},
				Action: r.CredentialList,
			},
			{
				Name:  "remove",
				Usage: "Remove a credential",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Credential ID",
						Required: true,
					},
				},
				Action: r.CredentialRemove,
			},
		},
	}
}

// showsCommand reads the provider's show list
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "SquadCast shows",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the shows visible to a user's credential",
				Flags: []cli.Flag{
					emailFlag(),
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this file instead of stdout",
					},
				},
				Action: r.ShowsList,
			},
		},
	}
}

// eventTypeCommand manages event types and their associated show
func eventTypeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "eventtype",
		Aliases: []string{"et"},
		Usage:   "Manage event types",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an event type",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Event type title",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "length",
						Usage: "Length in minutes",
						Value: 30,
					},
				},
				Action: r.EventTypeCreate,
			},
			{
				Name:  "show",
				Usage: "Show an event type and its SquadCast settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Event type ID",
						Required: true,
					},
				},
				Action: r.EventTypeShow,
			},
			{
				Name:  "set-show",
				Usage: "Associate a SquadCast show with an event type",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Event type ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "show",
						Usage: "SquadCast show ID (empty clears it)",
					},
					&cli.BoolFlag{
						Name:  "disable",
						Usage: "Disable the SquadCast app on the event type",
					},
				},
				Action: r.EventTypeSetShow,
			},
		},
	}
}

// bookingCommand drives the booking lifecycle from the command line
func bookingCommand(r *Runner) *cli.Command {
	eventFlags := func() []cli.Flag {
		return []cli.Flag{
			emailFlag(),
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to a booking JSON file (- for stdin)",
				Required: true,
			},
		}
	}

	return &cli.Command{
		Name:  "booking",
		Usage: "Run booking lifecycle events",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a SquadCast session for a booking",
				Flags:  eventFlags(),
				Action: r.BookingCreate,
			},
			{
				Name:   "reschedule",
				Usage:  "Update the SquadCast session of a rescheduled booking",
				Flags:  eventFlags(),
				Action: r.BookingReschedule,
			},
			{
				Name:  "cancel",
				Usage: "Delete the SquadCast sessions of cancelled bookings",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringSliceFlag{
						Name:     "uid",
						Usage:    "Booking UID (repeatable)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent cancellations when several UIDs are given",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Cancellations started per second",
						Value: 5,
					},
					formatFlag(),
				},
				Action: r.BookingCancel,
			},
		},
	}
}
