package video

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
)

// DefaultStudioURL hosts the SquadCast recording studio
const DefaultStudioURL = "https://app.squadcast.fm"

// AdapterOpts carries the dependencies shared by every [SquadCastAdapter].
type AdapterOpts struct {
	Service    services.Service
	EventTypes EventTypeFinder
	Secret     string // Credential encryption key
	StudioURL  string
	Logger     *log.Logger
}

// For binds the options to cred, implementing [AdapterFactory].
func (o AdapterOpts) For(cred *models.Credential) VideoAPIAdapter {
	return NewSquadCastAdapter(cred, o)
}

// SquadCastAdapter implements [VideoAPIAdapter] for one SquadCast credential.
type SquadCastAdapter struct {
	service    services.Service
	credential *models.Credential
	secret     string
	eventTypes EventTypeFinder
	studioURL  string
	logger     *log.Logger
}

// NewSquadCastAdapter creates an adapter for cred.
func NewSquadCastAdapter(cred *models.Credential, opts AdapterOpts) *SquadCastAdapter {
	if opts.StudioURL == "" {
		opts.StudioURL = DefaultStudioURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SquadCastAdapter{
		service:    opts.Service,
		credential: cred,
		secret:     opts.Secret,
		eventTypes: opts.EventTypes,
		studioURL:  strings.TrimRight(opts.StudioURL, "/"),
		logger:     shared.WithLogger(opts.Logger, "component", "video", "app", models.SquadCast.Slug, "credential_id", cred.ID()),
	}
}

// apiKey decrypts the credential's key
func (a *SquadCastAdapter) apiKey() (string, error) {
	encrypted, err := a.credential.EncryptedAPIKey()
	if err != nil {
		return "", err
	}
	return shared.SymmetricDecrypt(encrypted, a.secret)
}

// SessionURL is the studio link for a recording session
func (a *SquadCastAdapter) SessionURL(showID, sessionID string) string {
	return fmt.Sprintf("%s/studio/%s/session/%s", a.studioURL, showID, sessionID)
}

func (a *SquadCastAdapter) GetAvailability(context.Context, time.Time, time.Time) ([]BusySlot, error) {
	return []BusySlot{}, nil
}

// CreateMeeting schedules a session for event.
//
// A provider rejection is logged and yields empty call data.
func (a *SquadCastAdapter) CreateMeeting(ctx context.Context, event models.CalendarEvent) (models.VideoCallData, error) {
	apiKey, err := a.apiKey()
	if err != nil {
		return models.VideoCallData{}, err
	}

	form, err := a.buildForm(event, formCreate)
	if err != nil {
		return models.VideoCallData{}, err
	}

	session, err := a.service.CreateSession(ctx, apiKey, form)
	if status := services.StatusCode(err); status != 0 {
		a.logger.Warn("session not created", "booking_uid", event.UID, "status", status)
		return models.VideoCallData{}, nil
	}
	if err != nil {
		return models.VideoCallData{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("session created", "booking_uid", event.UID, "session_id", session.SessionID)

	return models.VideoCallData{
		Type:     models.SquadCast.Type,
		ID:       session.SessionID,
		Password: "",
		URL:      a.SessionURL(session.ShowID, session.SessionID),
	}, nil
}

// UpdateMeeting resends the session details and echoes back the reference.
func (a *SquadCastAdapter) UpdateMeeting(ctx context.Context, ref models.PartialReference, event models.CalendarEvent) (models.VideoCallData, error) {
	if ref.MeetingID == "" {
		return models.VideoCallData{}, nil
	}

	apiKey, err := a.apiKey()
	if err != nil {
		return models.VideoCallData{}, err
	}

	form, err := a.buildForm(event, formUpdate)
	if err != nil {
		return models.VideoCallData{}, err
	}

	err = a.service.UpdateSession(ctx, apiKey, ref.MeetingID, form)
	if status := services.StatusCode(err); status != 0 {
		a.logger.Warn("session update rejected", "session_id", ref.MeetingID, "status", status)
	} else if err != nil {
		return models.VideoCallData{}, fmt.Errorf("failed to update session: %w", err)
	}

	return models.VideoCallData{
		Type:     models.SquadCast.Type,
		ID:       ref.MeetingID,
		Password: ref.MeetingPassword,
		URL:      ref.MeetingURL,
	}, nil
}

// DeleteMeeting removes the session uid. A session that is already gone is not an error.
func (a *SquadCastAdapter) DeleteMeeting(ctx context.Context, uid string) error {
	apiKey, err := a.apiKey()
	if err != nil {
		return err
	}

	err = a.service.DeleteSession(ctx, apiKey, uid)
	if services.StatusCode(err) == http.StatusNotFound {
		a.logger.Debug("session already deleted", "session_id", uid)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	a.logger.Info("session deleted", "session_id", uid)
	return nil
}
