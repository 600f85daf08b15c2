package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv(EncryptionKeyEnv, "")
		os.Unsetenv(EncryptionKeyEnv)

		config := DefaultConfig()

		if config.Database.Path != "./squadcast.db" {
			t.Errorf("expected database path ./squadcast.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Server.SessionTTL.Duration != 720*time.Hour {
			t.Errorf("expected session ttl 720h, got %v", config.Server.SessionTTL)
		}

		if config.SquadCast.APIURL != "https://api.squadcast.fm" {
			t.Errorf("expected squadcast api url https://api.squadcast.fm, got %s", config.SquadCast.APIURL)
		}

		if config.SquadCast.Timeout.Duration != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.SquadCast.Timeout)
		}

		if config.Security.EncryptionKey != "" {
			t.Errorf("expected empty encryption key, got %q", config.Security.EncryptionKey)
		}
	})

	t.Run("Encryption Key Environment Override", func(t *testing.T) {
		t.Setenv(EncryptionKeyEnv, "from-env")

		config := DefaultConfig()
		if config.Security.EncryptionKey != "from-env" {
			t.Errorf("expected encryption key from env, got %q", config.Security.EncryptionKey)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
log_level = "debug"

[squadcast]
api_url = "http://localhost:9090"
rate_limit = 2.5

[security]
encryption_key = "file-key"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv(EncryptionKeyEnv, "")
		os.Unsetenv(EncryptionKeyEnv)

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.SquadCast.APIURL != "http://localhost:9090" {
			t.Errorf("expected api url http://localhost:9090, got %s", config.SquadCast.APIURL)
		}

		if config.SquadCast.StudioURL != "https://app.squadcast.fm" {
			t.Errorf("expected default studio url to survive, got %s", config.SquadCast.StudioURL)
		}

		if config.Security.EncryptionKey != "file-key" {
			t.Errorf("expected encryption key file-key, got %s", config.Security.EncryptionKey)
		}
	})

	t.Run("Invalid Duration", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("[squadcast]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Fatal("expected error for invalid duration")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
