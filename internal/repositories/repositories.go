// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

var (
	_ models.Repository[*models.User]             = (*UserRepository)(nil)
	_ models.Repository[*models.Credential]       = (*CredentialRepository)(nil)
	_ models.Repository[*models.EventType]        = (*EventTypeRepository)(nil)
	_ models.Repository[*models.BookingReference] = (*BookingReferenceRepository)(nil)
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., user #42, credential #15).
// They are NOT exposed in API responses but used internally for sorting and debugging.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// notFound wraps [shared.ErrNotFound] with the entity kind and key.
func notFound(kind, key string) error {
	return fmt.Errorf("%w: %s %s", shared.ErrNotFound, kind, key)
}

// softDelete stamps deleted_at on a live row of table.
func softDelete(db *sql.DB, table, kind, id string) error {
	result, err := db.Exec(fmt.Sprintf("UPDATE %s SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(kind, id)
	}

	return nil
}

// checkAffected turns a zero-row update into a not found error.
func checkAffected(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(kind, id)
	}
	return nil
}
