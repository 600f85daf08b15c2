package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

// EventTypeStore reads and writes per-app event type settings
type EventTypeStore interface {
	GetForUser(id, userID string) (*models.EventType, error)
	SetAppData(id, userID, slug string, data any) (*models.EventType, error)
}

// AppCardBody is the app card state of an event type
type AppCardBody struct {
	Enabled bool   `json:"enabled"`
	ShowID  string `json:"showID"`
}

// AppCardUpdate is a partial update; absent fields keep their stored value
type AppCardUpdate struct {
	Enabled *bool   `json:"enabled"`
	ShowID  *string `json:"showID"`
}

// EventTypeAppHandler serves the SquadCast card on an event type, which associates a show with it.
type EventTypeAppHandler struct {
	eventTypes EventTypeStore
	logger     *log.Logger
}

// NewEventTypeAppHandler creates the app card handler
func NewEventTypeAppHandler(eventTypes EventTypeStore, logger *log.Logger) *EventTypeAppHandler {
	return &EventTypeAppHandler{eventTypes: eventTypes, logger: shared.WithLogger(logger, "handler", "event_type_app")}
}

func (h *EventTypeAppHandler) Routes() []string {
	return []string{"/api/event-types/{id}/apps/" + models.SquadCast.Slug}
}

func (h *EventTypeAppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	et, err := h.eventTypes.GetForUser(r.PathValue("id"), userID)
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.logger.Error("event type lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	var data models.SquadCastAppData
	if _, err := et.AppData(models.SquadCast.Slug, &data); err != nil {
		h.logger.Error("malformed app data", "event_type_id", et.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, AppCardBody{Enabled: data.Enabled, ShowID: data.ShowID})
	case http.MethodPut:
		h.update(w, r, et, userID, data)
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethod)
	}
}

func (h *EventTypeAppHandler) update(w http.ResponseWriter, r *http.Request, et *models.EventType, userID string, data models.SquadCastAppData) {
	var body AppCardUpdate
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Enabled != nil {
		data.Enabled = *body.Enabled
	}
	if body.ShowID != nil {
		data.ShowID = *body.ShowID
	}

	if _, err := h.eventTypes.SetAppData(et.ID(), userID, models.SquadCast.Slug, data); err != nil {
		h.logger.Error("failed to store app data", "event_type_id", et.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
		return
	}

	h.logger.Info("app data updated", "event_type_id", et.ID(), "show_id", data.ShowID, "enabled", data.Enabled)
	writeJSON(w, http.StatusOK, AppCardBody{Enabled: data.Enabled, ShowID: data.ShowID})
}
