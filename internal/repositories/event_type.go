package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

// EventTypeRepository implements [models.Repository] for [models.EventType] persistence.
type EventTypeRepository struct {
	db *sql.DB
}

// NewEventTypeRepository creates a new [EventTypeRepository] with the given database connection
func NewEventTypeRepository(db *sql.DB) *EventTypeRepository {
	return &EventTypeRepository{db: db}
}

const eventTypeColumns = "id, sequence, user_id, title, length, metadata, created_at, updated_at, deleted_at"

// Create inserts a new event type with generated ID and sequence
func (r *EventTypeRepository) Create(et *models.EventType) error {
	if err := et.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	metadata, err := json.Marshal(et.Metadata())
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	sequence, err := NextSequence(r.db, "event_types")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO event_types (id, sequence, user_id, title, length, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, et.UserID(), et.Title(), et.Length(), string(metadata), et.CreatedAt(), et.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert event type: %w", err)
	}

	et.SetID(id)
	et.SetSequence(sequence)
	return nil
}

// Get retrieves an event type by ID, excluding soft-deleted rows
func (r *EventTypeRepository) Get(id string) (*models.EventType, error) {
	query := "SELECT " + eventTypeColumns + " FROM event_types WHERE id = ? AND deleted_at IS NULL"

	et, err := scanEventType(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("event type", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event type: %w", err)
	}

	return et, nil
}

// GetForUser retrieves an event type only if userID owns it.
//
// Event types owned by someone else are reported as not found.
func (r *EventTypeRepository) GetForUser(id, userID string) (*models.EventType, error) {
	et, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if et.UserID() != userID {
		return nil, notFound("event type", id)
	}
	return et, nil
}

// Update saves title, length and metadata of an existing event type
func (r *EventTypeRepository) Update(et *models.EventType) error {
	if err := et.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	metadata, err := json.Marshal(et.Metadata())
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE event_types
		SET title = ?, length = ?, metadata = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, et.Title(), et.Length(), string(metadata), now, et.ID())
	if err != nil {
		return fmt.Errorf("failed to update event type: %w", err)
	}

	if err := checkAffected(result, "event type", et.ID()); err != nil {
		return err
	}

	et.SetUpdatedAt(now)
	return nil
}

// SetAppData replaces one app's settings on an event type owned by userID and persists it.
func (r *EventTypeRepository) SetAppData(id, userID, slug string, data any) (*models.EventType, error) {
	et, err := r.GetForUser(id, userID)
	if err != nil {
		return nil, err
	}

	if err := et.SetAppData(slug, data); err != nil {
		return nil, err
	}

	if err := r.Update(et); err != nil {
		return nil, err
	}
	return et, nil
}

// Delete soft-deletes an event type by ID
func (r *EventTypeRepository) Delete(id string) error {
	return softDelete(r.db, "event_types", "event type", id)
}

// List retrieves live event types, optionally filtered by "user_id"
func (r *EventTypeRepository) List(criteria map[string]any) ([]*models.EventType, error) {
	query := "SELECT " + eventTypeColumns + " FROM event_types WHERE deleted_at IS NULL"
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event types: %w", err)
	}
	defer rows.Close()

	var eventTypes []*models.EventType
	for rows.Next() {
		et, err := scanEventType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		eventTypes = append(eventTypes, et)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return eventTypes, nil
}

func scanEventType(row scanner) (*models.EventType, error) {
	var (
		id        string
		sequence  int
		userID    string
		title     string
		length    int
		metadata  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &userID, &title, &length, &metadata, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var meta models.EventTypeMetadata
	if err := json.Unmarshal([]byte(metadata), &meta); err != nil {
		return nil, fmt.Errorf("invalid metadata for event type %s: %w", id, err)
	}

	et := models.NewEventType(sequence, userID, title, length)
	et.SetID(id)
	et.SetMetadata(meta)
	et.SetCreatedAt(createdAt)
	et.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		et.SetDeletedAt(&deletedAt.Time)
	}

	return et, nil
}
