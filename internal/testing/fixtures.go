package testing

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/shared"
)

// MigratedDB opens an in-memory store with every migration applied, closed when the test ends.
func MigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// SquadCastCredential builds an unsaved SquadCast credential for userID holding apiKey sealed with secret.
func SquadCastCredential(t *testing.T, userID, apiKey, secret string) *models.Credential {
	t.Helper()

	encrypted, err := shared.SymmetricEncrypt(apiKey, secret)
	if err != nil {
		t.Fatalf("failed to encrypt key: %v", err)
	}
	cred, err := models.NewAPIKeyCredential(models.SquadCast, userID, encrypted)
	if err != nil {
		t.Fatalf("failed to build credential: %v", err)
	}
	return cred
}
