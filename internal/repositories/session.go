package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

// SessionRepository stores bearer tokens issued to users.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Issue creates and stores a fresh session for userID.
func (r *SessionRepository) Issue(userID string, ttl time.Duration) (*models.Session, error) {
	session := models.NewSession(shared.GenerateToken(), userID, ttl)
	if err := r.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Create inserts a session.
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(query, session.Token(), session.UserID(), session.ExpiresAt(), session.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by token regardless of expiry.
func (r *SessionRepository) Get(token string) (*models.Session, error) {
	var (
		userID    string
		createdAt time.Time
		expiresAt time.Time
	)

	err := r.db.QueryRow(`SELECT user_id, created_at, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&userID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("session", "token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return models.RestoreSession(token, userID, createdAt, expiresAt), nil
}

// Lookup resolves a token to a live session.
//
// Expired sessions are reported as [shared.ErrSessionExpired].
func (r *SessionRepository) Lookup(token string) (*models.Session, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	session, err := r.Get(token)
	if err != nil {
		return nil, err
	}

	if session.Expired(r.now()) {
		return nil, shared.ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session by token.
func (r *SessionRepository) Delete(token string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return checkAffected(result, "session", "token")
}

// DeleteExpired purges sessions that expired before now and returns how many were removed.
func (r *SessionRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return result.RowsAffected()
}
