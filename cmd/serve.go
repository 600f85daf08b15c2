package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/server"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	if purged, err := s.sessions.DeleteExpired(); err != nil {
		r.logger.Warn("failed to purge expired sessions", "error", err)
	} else if purged > 0 {
		r.logger.Info("purged expired sessions", "count", purged)
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	handler := server.New(server.Deps{
		Users:       s.users,
		Sessions:    s.sessions,
		Credentials: s.credentials,
		EventTypes:  s.eventTypes,
		Shows:       r.squadcast(),
		Lifecycle:   r.manager(s),
		Secret:      r.secret(),
		Pages:       []server.Handler{web.NewSetupPage(models.SquadCast, r.logger)},
		Logger:      r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupURL := strings.TrimRight(r.config.SquadCast.AppURL, "/") + models.SquadCast.SetupPath()
	r.writePlain("%s %s\n", r.palette.Title("SquadCast app"), r.palette.Help(setupURL))

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(setupURL); err != nil {
			r.logger.Warn("failed to open browser", "url", setupURL, "error", err)
		}
	}

	if err := server.Serve(ctx, cfg.Addr(), handler, r.logger); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
