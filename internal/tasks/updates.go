package tasks

import (
	"fmt"

	"github.com/desertthunder/squadcast/internal/models"
)

// ProgressUpdate represents a progress event during a lifecycle operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LookupCredential Phase = iota
	CreateMeeting
	UpdateMeeting
	DeleteMeeting
	PersistReference
	RemoveReference
	BulkCancel
)

func (p Phase) String() string {
	switch p {
	case LookupCredential:
		return "lookup_credential"
	case CreateMeeting:
		return "create_meeting"
	case UpdateMeeting:
		return "update_meeting"
	case DeleteMeeting:
		return "delete_meeting"
	case PersistReference:
		return "persist_reference"
	case RemoveReference:
		return "remove_reference"
	case BulkCancel:
		return "bulk_cancel"
	default:
		return ""
	}
}

func lookupCredentialUpdate(step, total int, userID string) ProgressUpdate {
	msg := "Looking up SquadCast credential..."
	if userID != "" {
		msg = fmt.Sprintf("Looking up SquadCast credential for %s...", userID)
	}
	return ProgressUpdate{Phase: LookupCredential, Step: step, Total: total, Message: msg}
}

func createMeetingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateMeeting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating session: %s...", title),
	}
}

func updateMeetingUpdate(step, total int, meetingID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateMeeting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Updating session %s...", meetingID),
	}
}

func deleteMeetingUpdate(step, total int, meetingID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteMeeting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Deleting session %s...", meetingID),
	}
}

func persistReferenceUpdate(step, total int, ref *models.BookingReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistReference,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saved reference for booking %s (session %s)", ref.BookingUID(), ref.MeetingID()),
		Data:    ref,
	}
}

func removeReferenceUpdate(step, total int, bookingUID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveReference,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Removed reference for booking %s", bookingUID),
	}
}

func cancelCompletedUpdate(step, total int, bookingUID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkCancel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, bookingUID),
	}
}

func cancelFailedUpdate(step, total int, bookingUID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkCancel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, bookingUID, err),
	}
}
