package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/tasks"
)

// Lifecycle dispatches booking triggers
type Lifecycle interface {
	Handle(ctx context.Context, progress chan<- tasks.ProgressUpdate, trigger tasks.Trigger, event models.CalendarEvent) (*tasks.LifecycleResult, error)
}

// BookingEventRequest is the body of POST /api/bookings/events
type BookingEventRequest struct {
	Trigger string               `json:"trigger"`
	Booking models.CalendarEvent `json:"booking"`
}

// ReferenceBody describes a stored booking reference
type ReferenceBody struct {
	BookingUID      string `json:"bookingUid"`
	Type            string `json:"type"`
	MeetingID       string `json:"meetingId"`
	MeetingPassword string `json:"meetingPassword"`
	MeetingURL      string `json:"meetingUrl"`
}

// BookingEventResponse reports the outcome of a trigger
type BookingEventResponse struct {
	Trigger       tasks.Trigger        `json:"trigger"`
	VideoCallData models.VideoCallData `json:"videoCallData"`
	Reference     *ReferenceBody       `json:"reference"`
	Fallback      bool                 `json:"fallback,omitempty"`
	Existing      bool                 `json:"existing,omitempty"`
}

// BookingsHandler receives booking lifecycle events for the session user, who is the organizer.
type BookingsHandler struct {
	users     UserStore
	lifecycle Lifecycle
	logger    *log.Logger
}

// NewBookingsHandler creates the bookings handler
func NewBookingsHandler(users UserStore, lifecycle Lifecycle, logger *log.Logger) *BookingsHandler {
	return &BookingsHandler{users: users, lifecycle: lifecycle, logger: shared.WithLogger(logger, "handler", "bookings")}
}

func (h *BookingsHandler) Routes() []string {
	return []string{"/api/bookings/events"}
}

func (h *BookingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethod)
		return
	}

	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	user, err := h.users.Get(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	var body BookingEventRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trigger, err := tasks.ParseTrigger(body.Trigger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event := body.Booking.WithOrganizer(user)

	result, err := h.lifecycle.Handle(r.Context(), nil, trigger, event)
	if err != nil {
		h.writeLifecycleError(w, trigger, event.UID, err)
		return
	}

	resp := BookingEventResponse{Trigger: result.Trigger, VideoCallData: result.Call, Fallback: result.Fallback, Existing: result.Existing}
	if ref := result.Reference; ref != nil {
		resp.Reference = &ReferenceBody{
			BookingUID:      ref.BookingUID(),
			Type:            ref.Type(),
			MeetingID:       ref.MeetingID(),
			MeetingPassword: ref.MeetingPassword(),
			MeetingURL:      ref.MeetingURL(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingsHandler) writeLifecycleError(w http.ResponseWriter, trigger tasks.Trigger, uid string, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrAppNotInstalled):
		writeError(w, http.StatusForbidden, msgNotInstalled)
	case errors.Is(err, shared.ErrInvalidCredentials):
		writeError(w, http.StatusForbidden, "Your SquadCast API key was rejected, reinstall the app")
	default:
		h.logger.Error("lifecycle failed", "trigger", trigger, "booking_uid", uid, "error", err)
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
	}
}
