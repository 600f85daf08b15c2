package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/formatter"
	"github.com/desertthunder/squadcast/internal/repositories"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/tasks"
	"github.com/desertthunder/squadcast/internal/ui"
	"github.com/desertthunder/squadcast/internal/video"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	stores     *stores
	service    services.Service
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
	palette    *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB          // Opened from the config on first use when nil
	Service    services.Service // Built from the config on first use when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader // Read for "-" file arguments
	Output     io.Writer
}

// stores groups the repositories commands read and write
type stores struct {
	users       *repositories.UserRepository
	sessions    *repositories.SessionRepository
	credentials *repositories.CredentialRepository
	eventTypes  *repositories.EventTypeRepository
	references  *repositories.BookingReferenceRepository
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
		palette:    ui.Default,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, userCommand, credentialCommand, showsCommand, eventTypeCommand, bookingCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config named by --config and applies the log level.
//
// A missing config file is not an error; `setup database` creates it.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		}
	}

	levelName := r.config.Server.LogLevel
	if cmd.IsSet("log-level") {
		levelName = cmd.String("log-level")
	}
	level, err := shared.ParseLogLevel(levelName)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// database returns the database handle, opening it from the config on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	return db, nil
}

// open returns the repositories, migrating the database on first use.
func (r *Runner) open() (*stores, error) {
	if r.stores != nil {
		return r.stores, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.stores = &stores{
		users:       repositories.NewUserRepository(db),
		sessions:    repositories.NewSessionRepository(db),
		credentials: repositories.NewCredentialRepository(db),
		eventTypes:  repositories.NewEventTypeRepository(db),
		references:  repositories.NewBookingReferenceRepository(db),
	}
	return r.stores, nil
}

// squadcast returns the provider client, building it from the [squadcast] config on first use.
func (r *Runner) squadcast() services.Service {
	if r.service == nil {
		cfg := r.config.SquadCast
		r.service = services.NewSquadCastService(services.SquadCastOpts{
			BaseURL:    cfg.APIURL,
			HTTPClient: r.httpClient,
			RateLimit:  cfg.RateLimit,
			Timeout:    cfg.Timeout.Duration,
			Logger:     r.logger,
		})
	}
	return r.service
}

// secret returns the credential encryption key, warning when it is empty.
func (r *Runner) secret() string {
	key := r.config.Security.EncryptionKey
	if key == "" {
		r.logger.Warn("encryption key is empty; set security.encryption_key or " + shared.EncryptionKeyEnv)
	}
	return key
}

// manager wires the lifecycle manager to the database and the provider.
func (r *Runner) manager(s *stores) *tasks.Manager {
	adapters := video.AdapterOpts{
		Service:    r.squadcast(),
		EventTypes: s.eventTypes,
		Secret:     r.secret(),
		StudioURL:  r.config.SquadCast.StudioURL,
		Logger:     r.logger,
	}
	return tasks.NewManager(s.credentials, s.references, adapters, r.logger)
}

// writeListing prints l as a lipgloss table, or encoded as format.
func (r *Runner) writeListing(l formatter.Listing, format formatter.Format) error {
	if format == formatter.FormatTable {
		if l.Title != "" {
			r.writePlain("%s\n", r.palette.Title(l.Title))
		}
		return r.writePlain("%s\n", r.palette.Table(l.Headers, l.Rows))
	}

	data, err := formatter.Render(l, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
