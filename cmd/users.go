package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserCreate creates a user and prints a session token for the HTTP API.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	email := strings.TrimSpace(cmd.String("email"))
	name := cmd.String("name")
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user := models.NewUser(0, email, name)
	user.SetTimeZone(cmd.String("tz"))
	if err := s.users.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Info("user created", "user_id", user.ID(), "email", email)

	session, err := s.sessions.Issue(user.ID(), r.config.Server.SessionTTL.Duration)
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	r.writePlain("%s\n", r.palette.OK("✓ User created: "+user.Email()))
	r.writePlain("ID:      %s\n", user.ID())
	r.writePlain("Token:   %s\n", session.Token())
	return r.writePlain("Expires: %s\n", session.ExpiresAt().Format("2006-01-02 15:04 MST"))
}

// UserToken issues a fresh session token for an existing user.
func (r *Runner) UserToken(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	session, err := s.sessions.Issue(user.ID(), r.config.Server.SessionTTL.Duration)
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	return r.writePlain("%s\n", session.Token())
}

func (r *Runner) userByEmail(s *stores, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: --email", shared.ErrMissingArgument)
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
