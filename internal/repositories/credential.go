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

// CredentialRepository implements [models.Repository] for installed app [models.Credential] persistence.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = "id, sequence, type, key, user_id, team_id, app_id, invalid, created_at, updated_at, deleted_at"

// Create inserts a new credential with generated ID and sequence
func (r *CredentialRepository) Create(cred *models.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "credentials")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO credentials (id, sequence, type, key, user_id, team_id, app_id, invalid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id, sequence, cred.Type(), string(cred.Key()), nullString(cred.UserID()), cred.TeamID(),
		cred.AppID(), cred.Invalid(), cred.CreatedAt(), cred.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	cred.SetID(id)
	cred.SetSequence(sequence)
	return nil
}

// Get retrieves a credential by ID, excluding soft-deleted credentials
func (r *CredentialRepository) Get(id string) (*models.Credential, error) {
	query := "SELECT " + credentialColumns + " FROM credentials WHERE id = ? AND deleted_at IS NULL"

	cred, err := scanCredential(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("credential", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	return cred, nil
}

// FindByUserAndType returns the user's live credential of credType, preferring
// valid credentials and then the most recently installed one.
//
// Returns an error wrapping [shared.ErrNotFound] when the app is not installed.
func (r *CredentialRepository) FindByUserAndType(userID, credType string) (*models.Credential, error) {
	query := "SELECT " + credentialColumns + ` FROM credentials
		WHERE type = ? AND user_id = ? AND deleted_at IS NULL
		ORDER BY invalid ASC, sequence DESC LIMIT 1`

	cred, err := scanCredential(r.db.QueryRow(query, credType, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("credential", credType+" for user "+userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	return cred, nil
}

// Update replaces the key and invalid flag of an existing credential
func (r *CredentialRepository) Update(cred *models.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE credentials
		SET key = ?, team_id = ?, invalid = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, string(cred.Key()), cred.TeamID(), cred.Invalid(), now, cred.ID())
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	if err := checkAffected(result, "credential", cred.ID()); err != nil {
		return err
	}

	cred.SetUpdatedAt(now)
	return nil
}

// MarkInvalid flags a credential whose key the provider rejected.
func (r *CredentialRepository) MarkInvalid(id string) error {
	result, err := r.db.Exec(
		`UPDATE credentials SET invalid = 1, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate credential: %w", err)
	}
	return checkAffected(result, "credential", id)
}

// Delete soft-deletes a credential by ID
func (r *CredentialRepository) Delete(id string) error {
	return softDelete(r.db, "credentials", "credential", id)
}

// List retrieves live credentials matching the given criteria.
//
// Supported criteria: "user_id", "type", "app_id" (strings) and "invalid" (bool).
func (r *CredentialRepository) List(criteria map[string]any) ([]*models.Credential, error) {
	query := "SELECT " + credentialColumns + " FROM credentials WHERE deleted_at IS NULL"
	args := []any{}

	for _, column := range []string{"user_id", "type", "app_id"} {
		if value, ok := criteria[column].(string); ok && value != "" {
			query += " AND " + column + " = ?"
			args = append(args, value)
		}
	}

	if invalid, ok := criteria["invalid"].(bool); ok {
		query += " AND invalid = ?"
		args = append(args, invalid)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, cred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return creds, nil
}

func scanCredential(row scanner) (*models.Credential, error) {
	var (
		id        string
		sequence  int
		credType  string
		key       string
		userID    sql.NullString
		teamID    sql.NullString
		appID     string
		invalid   bool
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &credType, &key, &userID, &teamID, &appID, &invalid, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	cred := models.NewCredential(sequence, credType, appID, userID.String, json.RawMessage(key))
	cred.SetID(id)
	cred.SetInvalid(invalid)
	cred.SetCreatedAt(createdAt)
	cred.SetUpdatedAt(updatedAt)
	if teamID.Valid {
		team := teamID.String
		cred.SetTeamID(&team)
	}
	if deletedAt.Valid {
		cred.SetDeletedAt(&deletedAt.Time)
	}

	return cred, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
