package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/squadcast/internal/formatter"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/urfave/cli/v3"
)

// CredentialAdd encrypts an API key and stores it as the user's SquadCast credential.
//
// With --verify the key must list shows successfully before it is stored.
func (r *Runner) CredentialAdd(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		return fmt.Errorf("%w: --api-key", shared.ErrMissingArgument)
	}

	if cmd.Bool("verify") {
		shows, err := r.squadcast().ListShows(ctx, apiKey)
		if err != nil {
			return fmt.Errorf("API key rejected by SquadCast: %w", err)
		}
		r.logger.Info("API key verified", "shows", len(shows))
	}

	encrypted, err := shared.SymmetricEncrypt(apiKey, r.secret())
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	cred, err := models.NewAPIKeyCredential(models.SquadCast, user.ID(), encrypted)
	if err != nil {
		return err
	}
	if err := s.credentials.Create(cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	r.logger.Info("app installed", "user_id", user.ID(), "credential_id", cred.ID())
	return r.writePlain("%s\n", r.palette.OK("✓ SquadCast installed for "+user.Email()+" (credential "+cred.ID()+")"))
}

// CredentialList prints stored credentials, optionally for one user.
func (r *Runner) CredentialList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	s, err := r.open()
	if err != nil {
		return err
	}

	criteria := map[string]any{"type": models.SquadCast.Type}
	if email := cmd.String("email"); email != "" {
		user, err := r.userByEmail(s, email)
		if err != nil {
			return err
		}
		criteria["user_id"] = user.ID()
	}

	creds, err := s.credentials.List(criteria)
	if err != nil {
		return err
	}

	return r.writeListing(formatter.CredentialsListing(creds), format)
}

// CredentialRemove soft-deletes a credential.
func (r *Runner) CredentialRemove(ctx context.Context, cmd *cli.Command) error {
	s, err := r.open()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := s.credentials.Delete(id); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	return r.writePlain("%s\n", r.palette.OK("✓ Credential removed: "+id))
}

// ShowsList fetches the shows visible to the user's stored credential.
func (r *Runner) ShowsList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output != "" && format == formatter.FormatTable {
		format = formatter.FormatCSV
	}

	s, err := r.open()
	if err != nil {
		return err
	}

	user, err := r.userByEmail(s, cmd.String("email"))
	if err != nil {
		return err
	}

	cred, err := s.credentials.FindByUserAndType(user.ID(), models.SquadCast.Type)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w for %s", shared.ErrAppNotInstalled, user.Email())
	}
	if err != nil {
		return err
	}

	encrypted, err := cred.EncryptedAPIKey()
	if err != nil {
		return err
	}
	apiKey, err := shared.SymmetricDecrypt(encrypted, r.secret())
	if err != nil {
		return err
	}

	shows, err := r.squadcast().ListShows(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("failed to list shows: %w", err)
	}

	listing := formatter.ShowsListing(shows)
	if output == "" {
		return r.writeListing(listing, format)
	}

	n, err := formatter.WriteExport(listing, format, output)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("✓ Wrote %d shows (%d bytes) to %s", len(shows), n, output)))
}
