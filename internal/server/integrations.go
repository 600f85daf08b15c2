package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
)

// UserStore loads users
type UserStore interface {
	Get(id string) (*models.User, error)
}

// CredentialStore is the credential persistence used by the integration handlers
type CredentialStore interface {
	Create(cred *models.Credential) error
	FindByUserAndType(userID, credType string) (*models.Credential, error)
	MarkInvalid(id string) error
}

// ShowLister fetches a user's shows from the provider
type ShowLister interface {
	ListShows(ctx context.Context, apiKey string) ([]services.Show, error)
}

// AddRequest is the body accepted by [AddHandler]
type AddRequest struct {
	APIKey string `json:"apiKey"`
}

// AddHandler installs the app for the session user by storing their encrypted API key.
//
// GET points the client at the settings form; POST stores the credential.
type AddHandler struct {
	users       UserStore
	credentials CredentialStore
	secret      string
	logger      *log.Logger
}

// NewAddHandler creates the add handler
func NewAddHandler(users UserStore, credentials CredentialStore, secret string, logger *log.Logger) *AddHandler {
	return &AddHandler{
		users:       users,
		credentials: credentials,
		secret:      secret,
		logger:      shared.WithLogger(logger, "handler", "add"),
	}
}

func (h *AddHandler) Routes() []string {
	return []string{models.SquadCast.IntegrationPath("add")}
}

func (h *AddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, URLBody{URL: models.SquadCast.SetupPath()})
	case http.MethodPost:
		h.add(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethod)
	}
}

func (h *AddHandler) add(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	user, err := h.users.Get(userID)
	if err != nil {
		h.logger.Warn("session user not found", "user_id", userID, "error", err)
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	var body AddRequest
	if err := decodeJSON(w, r, &body); err != nil || body.APIKey == "" {
		writeError(w, http.StatusBadRequest, "API key is required")
		return
	}

	encrypted, err := shared.SymmetricEncrypt(body.APIKey, h.secret)
	if err != nil {
		h.logger.Error(msgAddFailed, "user_id", user.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgAddFailed)
		return
	}

	cred, err := models.NewAPIKeyCredential(models.SquadCast, user.ID(), encrypted)
	if err == nil {
		err = h.credentials.Create(cred)
	}
	if err != nil {
		h.logger.Error(msgAddFailed, "user_id", user.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgAddFailed)
		return
	}

	h.logger.Info("app installed", "user_id", user.ID(), "credential_id", cred.ID())
	writeJSON(w, http.StatusOK, URLBody{URL: models.SquadCast.InstalledAppPath()})
}

// ShowsBody is the capture response: [id, name] pairs in provider order
type ShowsBody struct {
	Shows [][2]string `json:"shows"`
}

// CaptureHandler proxies the session user's show list from SquadCast.
type CaptureHandler struct {
	credentials CredentialStore
	shows       ShowLister
	secret      string
	logger      *log.Logger
}

// NewCaptureHandler creates the capture handler
func NewCaptureHandler(credentials CredentialStore, shows ShowLister, secret string, logger *log.Logger) *CaptureHandler {
	return &CaptureHandler{
		credentials: credentials,
		shows:       shows,
		secret:      secret,
		logger:      shared.WithLogger(logger, "handler", "capture"),
	}
}

func (h *CaptureHandler) Routes() []string {
	return []string{models.SquadCast.IntegrationPath("capture")}
}

func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	cred, err := h.credentials.FindByUserAndType(userID, models.SquadCast.Type)
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusForbidden, msgNotInstalled)
		return
	}
	if err != nil {
		h.logger.Error("credential lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	encrypted, err := cred.EncryptedAPIKey()
	if err != nil {
		h.logger.Error("malformed credential", "credential_id", cred.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	apiKey, err := shared.SymmetricDecrypt(encrypted, h.secret)
	if err != nil {
		h.logger.Error("failed to decrypt credential", "credential_id", cred.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	shows, err := h.shows.ListShows(r.Context(), apiKey)
	if err != nil {
		h.handleProviderError(w, cred, err)
		return
	}

	body := ShowsBody{Shows: make([][2]string, 0, len(shows))}
	for _, s := range shows {
		body.Shows = append(body.Shows, [2]string{s.ID, s.Name})
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *CaptureHandler) handleProviderError(w http.ResponseWriter, cred *models.Credential, err error) {
	status := services.StatusCode(err)
	if status == 0 {
		h.logger.Error("show request failed", "credential_id", cred.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	if status == http.StatusUnauthorized && !cred.Invalid() {
		if markErr := h.credentials.MarkInvalid(cred.ID()); markErr != nil {
			h.logger.Error("failed to invalidate credential", "credential_id", cred.ID(), "error", markErr)
		} else {
			h.logger.Warn("credential rejected by provider", "credential_id", cred.ID())
		}
	}

	writeError(w, http.StatusInternalServerError, msgFetchFailed)
}
