package shared

import (
	"testing"
)

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file      string
		version   int
		name      string
		direction string
		ok        bool
	}{
		{"0002_create_credentials_up.sql", 2, "create_credentials", "up", true},
		{"0010_add_index_down.sql", 10, "add_index", "down", true},
		{"README.md", 0, "", "", false},
		{"abcd_create_up.sql", 0, "", "", false},
		{"0001_create_users_sideways.sql", 0, "", "", false},
		{"0001.sql", 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, direction, ok := parseMigrationName(tt.file)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if version != tt.version || name != tt.name || direction != tt.direction {
				t.Errorf("got (%d, %q, %q)", version, name, direction)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	script := `
-- users
CREATE TABLE a (id TEXT); -- trailing
CREATE INDEX idx_a ON a (id);

-- nothing here
`
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("unexpected first statement: %q", stmts[0])
	}
}

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Name == "" || m.Up == "" || m.Down == "" {
				t.Errorf("migration version %d incomplete: %+v", m.Version, m)
			}
		}

		if migrations[0].Name != "create_users" {
			t.Errorf("expected first migration create_users, got %q", migrations[0].Name)
		}
	})

	t.Run("RunMigrations, status and rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"users", "sessions", "credentials", "event_types", "booking_references"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		applied, err := MigrationStatus(db)
		if err != nil {
			t.Fatalf("MigrationStatus failed: %v", err)
		}
		if len(applied) != 5 {
			t.Fatalf("expected 5 applied migrations, got %d", len(applied))
		}
		last := applied[len(applied)-1]
		if last.Name != "create_booking_references" || last.AppliedAt.IsZero() {
			t.Errorf("unexpected last migration: %+v", last)
		}

		rolled, err := RollbackMigration(db)
		if err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}
		if rolled.Version != last.Version {
			t.Errorf("expected rollback of %d, got %d", last.Version, rolled.Version)
		}

		applied, _ = MigrationStatus(db)
		if len(applied) != 4 {
			t.Errorf("expected 4 applied migrations after rollback, got %d", len(applied))
		}

		if _, err := db.Exec("SELECT 1 FROM booking_references LIMIT 1"); err == nil {
			t.Error("booking_references table should be dropped by rollback")
		}
	})

	t.Run("rollback on empty database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RollbackMigration(db); err == nil {
			t.Error("expected error with nothing to roll back")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		for i := 0; i < 2; i++ {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("run %d failed: %v", i+1, err)
			}
		}

		applied, err := MigrationStatus(db)
		if err != nil {
			t.Fatalf("MigrationStatus failed: %v", err)
		}

		migrations, _ := loadMigrations()
		if len(applied) != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), len(applied))
		}
	})
}
