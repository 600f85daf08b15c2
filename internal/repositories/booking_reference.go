package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

// BookingReferenceRepository implements [models.Repository] for [models.BookingReference] persistence.
type BookingReferenceRepository struct {
	db *sql.DB
}

// NewBookingReferenceRepository creates a new [BookingReferenceRepository] with the given database connection
func NewBookingReferenceRepository(db *sql.DB) *BookingReferenceRepository {
	return &BookingReferenceRepository{db: db}
}

const bookingReferenceColumns = `id, sequence, booking_uid, user_id, type, meeting_id, meeting_password, meeting_url,
	credential_id, created_at, updated_at, deleted_at`

// Create inserts a booking reference with generated ID and sequence
func (r *BookingReferenceRepository) Create(ref *models.BookingReference) error {
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "booking_references")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO booking_references (id, sequence, booking_uid, user_id, type, meeting_id, meeting_password, meeting_url,
			credential_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id, sequence, ref.BookingUID(), ref.UserID(), ref.Type(), ref.MeetingID(), ref.MeetingPassword(), ref.MeetingURL(),
		nullString(ref.CredentialID()), ref.CreatedAt(), ref.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking reference: %w", err)
	}

	ref.SetID(id)
	ref.SetSequence(sequence)
	return nil
}

// Get retrieves a live booking reference by ID
func (r *BookingReferenceRepository) Get(id string) (*models.BookingReference, error) {
	query := "SELECT " + bookingReferenceColumns + " FROM booking_references WHERE id = ? AND deleted_at IS NULL"

	ref, err := scanBookingReference(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("booking reference", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking reference: %w", err)
	}

	return ref, nil
}

// FindByBooking returns the latest live reference of refType that userID holds for a booking.
//
// References owned by other users are reported as not found.
func (r *BookingReferenceRepository) FindByBooking(userID, bookingUID, refType string) (*models.BookingReference, error) {
	query := "SELECT " + bookingReferenceColumns + ` FROM booking_references
		WHERE user_id = ? AND booking_uid = ? AND type = ? AND deleted_at IS NULL
		ORDER BY sequence DESC LIMIT 1`

	ref, err := scanBookingReference(r.db.QueryRow(query, userID, bookingUID, refType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("booking reference", bookingUID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking reference: %w", err)
	}

	return ref, nil
}

// Update saves the meeting details of an existing reference
func (r *BookingReferenceRepository) Update(ref *models.BookingReference) error {
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE booking_references
		SET type = ?, meeting_id = ?, meeting_password = ?, meeting_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, ref.Type(), ref.MeetingID(), ref.MeetingPassword(), ref.MeetingURL(), now, ref.ID())
	if err != nil {
		return fmt.Errorf("failed to update booking reference: %w", err)
	}

	if err := checkAffected(result, "booking reference", ref.ID()); err != nil {
		return err
	}

	ref.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a booking reference by ID
func (r *BookingReferenceRepository) Delete(id string) error {
	return softDelete(r.db, "booking_references", "booking reference", id)
}

// List retrieves live references, optionally filtered by "user_id", "booking_uid" and "type"
func (r *BookingReferenceRepository) List(criteria map[string]any) ([]*models.BookingReference, error) {
	query := "SELECT " + bookingReferenceColumns + " FROM booking_references WHERE deleted_at IS NULL"
	args := []any{}

	for _, column := range []string{"user_id", "booking_uid", "type"} {
		if value, ok := criteria[column].(string); ok && value != "" {
			query += " AND " + column + " = ?"
			args = append(args, value)
		}
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking references: %w", err)
	}
	defer rows.Close()

	var refs []*models.BookingReference
	for rows.Next() {
		ref, err := scanBookingReference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking reference: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return refs, nil
}

func scanBookingReference(row scanner) (*models.BookingReference, error) {
	var (
		id           string
		sequence     int
		bookingUID   string
		userID       string
		refType      string
		meetingID    string
		password     string
		meetingURL   string
		credentialID sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &bookingUID, &userID, &refType, &meetingID, &password, &meetingURL,
		&credentialID, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	ref := models.NewBookingReference(sequence, bookingUID, userID, credentialID.String, models.VideoCallData{
		Type:     refType,
		ID:       meetingID,
		Password: password,
		URL:      meetingURL,
	})
	ref.SetID(id)
	ref.SetCreatedAt(createdAt)
	ref.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		ref.SetDeletedAt(&deletedAt.Time)
	}

	return ref, nil
}
