// Package tasks turns booking triggers into SquadCast session operations.
//
// [Manager] creates, updates and deletes remote sessions and keeps one booking
// reference per organizer and booking. Operations report progress on an
// optional channel without blocking; [Manager.BulkCancel] fans cancellations
// out over a rate-limited worker pool.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/video"
)

// Trigger names a booking lifecycle event
type Trigger string

const (
	BookingCreated     Trigger = "BOOKING_CREATED"
	BookingRescheduled Trigger = "BOOKING_RESCHEDULED"
	BookingCancelled   Trigger = "BOOKING_CANCELLED"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case BookingCreated, BookingRescheduled, BookingCancelled:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown trigger %q", shared.ErrInvalidInput, s)
	}
}

// LifecycleResult reports what a trigger did to the remote session.
type LifecycleResult struct {
	Trigger   Trigger                  // Trigger that was handled
	Call      models.VideoCallData     // Call data returned by the adapter (empty on cancel)
	Reference *models.BookingReference // Stored reference; nil when nothing was stored or it was removed
	Fallback  bool                     // Reschedule fell back to create
	Existing  bool                     // Create found a live reference and made no new session
}

// LifecycleEngine defines the booking lifecycle operations.
type LifecycleEngine interface {
	// Handle dispatches a trigger to the matching operation.
	Handle(ctx context.Context, progress chan<- ProgressUpdate, trigger Trigger, event models.CalendarEvent) (*LifecycleResult, error)

	// Created creates a session for a new booking and stores its reference.
	Created(ctx context.Context, progress chan<- ProgressUpdate, event models.CalendarEvent) (*LifecycleResult, error)

	// Rescheduled updates the stored session, creating one when the booking has none.
	Rescheduled(ctx context.Context, progress chan<- ProgressUpdate, event models.CalendarEvent) (*LifecycleResult, error)

	// Cancelled deletes the organizer's stored session and its reference.
	Cancelled(ctx context.Context, progress chan<- ProgressUpdate, organizerID, bookingUID string) (*LifecycleResult, error)
}

// CredentialStore is the subset of the credential repository the manager reads.
type CredentialStore interface {
	Get(id string) (*models.Credential, error)
	FindByUserAndType(userID, credType string) (*models.Credential, error)
}

// ReferenceStore persists booking references.
type ReferenceStore interface {
	Create(ref *models.BookingReference) error
	FindByBooking(userID, bookingUID, refType string) (*models.BookingReference, error)
	Update(ref *models.BookingReference) error
	Delete(id string) error
}

// Manager implements [LifecycleEngine] for the SquadCast app.
type Manager struct {
	credentials CredentialStore
	references  ReferenceStore
	adapters    video.AdapterFactory
	logger      *log.Logger
}

// NewManager creates a lifecycle manager.
func NewManager(credentials CredentialStore, references ReferenceStore, adapters video.AdapterFactory, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		credentials: credentials,
		references:  references,
		adapters:    adapters,
		logger:      shared.WithLogger(logger, "component", "lifecycle"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (m *Manager) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (m *Manager) Handle(ctx context.Context, progress chan<- ProgressUpdate, trigger Trigger, event models.CalendarEvent) (*LifecycleResult, error) {
	switch trigger {
	case BookingCreated:
		return m.Created(ctx, progress, event)
	case BookingRescheduled:
		return m.Rescheduled(ctx, progress, event)
	case BookingCancelled:
		return m.Cancelled(ctx, progress, event.Organizer.ID, event.UID)
	default:
		return nil, fmt.Errorf("%w: unknown trigger %q", shared.ErrInvalidInput, trigger)
	}
}

// organizerCredential returns the organizer's installed, valid SquadCast credential.
func (m *Manager) organizerCredential(userID string) (*models.Credential, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: organizer id", shared.ErrMissingArgument)
	}

	cred, err := m.credentials.FindByUserAndType(userID, models.SquadCast.Type)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAppNotInstalled, models.SquadCast.Slug)
	}
	if err != nil {
		return nil, err
	}

	if cred.Invalid() {
		return nil, fmt.Errorf("%w: credential %s is marked invalid", shared.ErrInvalidCredentials, cred.ID())
	}
	return cred, nil
}

// referenceCredential returns the credential that created ref while it is
// still the organizer's and valid, otherwise the organizer's current one.
func (m *Manager) referenceCredential(ref *models.BookingReference, organizerID string) (*models.Credential, error) {
	if id := ref.CredentialID(); id != "" {
		cred, err := m.credentials.Get(id)
		switch {
		case err == nil && cred.UserID() == organizerID && !cred.Invalid():
			return cred, nil
		case err == nil:
			m.logger.Warn("reference credential unusable", "booking_uid", ref.BookingUID(), "credential_id", id)
		case errors.Is(err, shared.ErrNotFound):
			m.logger.Warn("reference credential removed", "booking_uid", ref.BookingUID(), "credential_id", id)
		default:
			return nil, err
		}
	}
	return m.organizerCredential(organizerID)
}

// findReference returns the organizer's live reference for a booking.
func (m *Manager) findReference(organizerID, bookingUID string) (*models.BookingReference, error) {
	return m.references.FindByBooking(organizerID, bookingUID, models.SquadCast.Type)
}

func (m *Manager) Created(ctx context.Context, progress chan<- ProgressUpdate, event models.CalendarEvent) (*LifecycleResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	existing, err := m.findReference(event.Organizer.ID, event.UID)
	switch {
	case err == nil:
		m.logger.Info("booking already has a session", "booking_uid", event.UID, "meeting_id", existing.MeetingID())
		return &LifecycleResult{Trigger: BookingCreated, Call: existing.Call(), Reference: existing, Existing: true}, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	m.sendProgress(progress, lookupCredentialUpdate(1, 3, event.Organizer.ID))

	cred, err := m.organizerCredential(event.Organizer.ID)
	if err != nil {
		return nil, err
	}

	m.sendProgress(progress, createMeetingUpdate(2, 3, event.Title))

	call, err := m.adapters.For(cred).CreateMeeting(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	result := &LifecycleResult{Trigger: BookingCreated, Call: call}
	if call.ID == "" {
		m.logger.Warn("no meeting created", "booking_uid", event.UID)
		return result, nil
	}

	ref := models.NewBookingReference(0, event.UID, event.Organizer.ID, cred.ID(), call)
	if err := m.references.Create(ref); err != nil {
		return result, fmt.Errorf("meeting created but failed to store reference: %w", err)
	}

	m.sendProgress(progress, persistReferenceUpdate(3, 3, ref))
	m.logger.Info("booking created", "booking_uid", event.UID, "meeting_id", call.ID)

	result.Reference = ref
	return result, nil
}

func (m *Manager) Rescheduled(ctx context.Context, progress chan<- ProgressUpdate, event models.CalendarEvent) (*LifecycleResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	ref, err := m.findReference(event.Organizer.ID, event.UID)
	if errors.Is(err, shared.ErrNotFound) {
		m.logger.Info("no reference for rescheduled booking, creating", "booking_uid", event.UID)
		result, err := m.Created(ctx, progress, event)
		if result != nil {
			result.Trigger = BookingRescheduled
			result.Fallback = true
		}
		return result, err
	}
	if err != nil {
		return nil, err
	}

	m.sendProgress(progress, lookupCredentialUpdate(1, 3, event.Organizer.ID))

	cred, err := m.referenceCredential(ref, event.Organizer.ID)
	if err != nil {
		return nil, err
	}

	m.sendProgress(progress, updateMeetingUpdate(2, 3, ref.MeetingID()))

	call, err := m.adapters.For(cred).UpdateMeeting(ctx, ref.Partial(), event)
	if err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}

	result := &LifecycleResult{Trigger: BookingRescheduled, Call: call, Reference: ref}
	if call.Empty() {
		return result, nil
	}

	ref.SetCall(call)
	if err := m.references.Update(ref); err != nil {
		return result, fmt.Errorf("meeting updated but failed to store reference: %w", err)
	}

	m.sendProgress(progress, persistReferenceUpdate(3, 3, ref))
	m.logger.Info("booking rescheduled", "booking_uid", event.UID, "meeting_id", call.ID)
	return result, nil
}

func (m *Manager) Cancelled(ctx context.Context, progress chan<- ProgressUpdate, organizerID, bookingUID string) (*LifecycleResult, error) {
	if organizerID == "" {
		return nil, fmt.Errorf("%w: organizer id", shared.ErrMissingArgument)
	}
	if bookingUID == "" {
		return nil, fmt.Errorf("%w: booking uid", shared.ErrMissingArgument)
	}

	result := &LifecycleResult{Trigger: BookingCancelled}

	ref, err := m.findReference(organizerID, bookingUID)
	if errors.Is(err, shared.ErrNotFound) {
		m.logger.Debug("no reference for cancelled booking", "booking_uid", bookingUID)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	m.sendProgress(progress, lookupCredentialUpdate(1, 3, organizerID))

	cred, err := m.referenceCredential(ref, organizerID)
	switch {
	case errors.Is(err, shared.ErrAppNotInstalled):
		m.logger.Warn("credential gone, removing reference only", "booking_uid", bookingUID)
	case err != nil:
		return nil, err
	case ref.MeetingID() != "":
		m.sendProgress(progress, deleteMeetingUpdate(2, 3, ref.MeetingID()))

		if err := m.adapters.For(cred).DeleteMeeting(ctx, ref.MeetingID()); err != nil {
			return nil, fmt.Errorf("failed to delete meeting: %w", err)
		}
	}

	if err := m.references.Delete(ref.ID()); err != nil {
		return nil, fmt.Errorf("meeting deleted but failed to remove reference: %w", err)
	}

	m.sendProgress(progress, removeReferenceUpdate(3, 3, bookingUID))
	m.logger.Info("booking cancelled", "booking_uid", bookingUID, "meeting_id", ref.MeetingID())
	return result, nil
}

func validateEvent(event models.CalendarEvent) error {
	if event.UID == "" {
		return fmt.Errorf("%w: booking uid", shared.ErrMissingArgument)
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return nil
}
