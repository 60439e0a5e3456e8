package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// A path that does not exist; defaults must carry the tools.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.API.BaseURL != "https://lms-backend-flwq.onrender.com/api/v1" {
		t.Errorf("Expected hosted service default, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 2*time.Minute {
		t.Errorf("Expected 2m timeout, got %v", cfg.API.Timeout)
	}
	if cfg.API.RateLimitRPS != 5.0 {
		t.Errorf("Expected 5 rps, got %v", cfg.API.RateLimitRPS)
	}
	if cfg.Session.TokenPath == "" {
		t.Error("Expected a default token path")
	}
	if cfg.SFTP.Port != 22 {
		t.Errorf("Expected sftp port 22, got %d", cfg.SFTP.Port)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
api:
  base_url: https://staging.example/api/v1
  rate_limit_rps: 2
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STUDIO_API_BASE_URL", "https://env.example/api/v1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Env beats the file, the file beats the default.
	if cfg.API.BaseURL != "https://env.example/api/v1" {
		t.Errorf("Expected env override, got %q", cfg.API.BaseURL)
	}
	if cfg.API.RateLimitRPS != 2 {
		t.Errorf("Expected file value 2 rps, got %v", cfg.API.RateLimitRPS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level from file, got %q", cfg.Log.Level)
	}
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for broken config file, got nil")
	}
}
