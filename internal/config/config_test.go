package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
apiPort: 9090
database:
  type: sqlite
  path: /tmp/test.db
auth:
  secret: test-secret
  tokenTTLMinutes: 15
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.APIPort != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.APIPort)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected database type sqlite, got %s", cfg.Database.Type)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Expected database path /tmp/test.db, got %s", cfg.Database.Path)
	}
	if cfg.Auth.Secret != "test-secret" {
		t.Errorf("Expected auth secret test-secret, got %s", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTLMinutes != 15 {
		t.Errorf("Expected token TTL 15, got %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  secret: test-secret
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.APIPort != 8081 {
		t.Errorf("Expected default port 8081, got %d", cfg.APIPort)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.Database.Type)
	}
	if cfg.Database.Path != "/data/taskforge.db" {
		t.Errorf("Expected default database path, got %s", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTLMinutes != 30 {
		t.Errorf("Expected default token TTL 30, got %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestLoadConfigPostgresDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  type: postgres
  user: taskforge
  name: taskforge
auth:
  secret: test-secret
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Expected default port 5432, got %s", cfg.Database.Port)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Expected default sslmode disable, got %s", cfg.Database.SSLMode)
	}
}

func TestLoadConfigMissingSecret(t *testing.T) {
	path := writeConfigFile(t, `
apiPort: 8081
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected error for missing auth secret, got none")
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := writeConfigFile(t, `apiPort: [not, a, port]`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected error for invalid config, got none")
	}
}
