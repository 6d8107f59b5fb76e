package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8000" {
		t.Errorf("ServerPort: got %q, want %q", cfg.ServerPort, "8000")
	}
	if cfg.JWTExpiration != 30*time.Minute {
		t.Errorf("JWTExpiration: got %v", cfg.JWTExpiration)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "erms.toml")
	content := `
database_url = "file:erms.db"
jwt_secret = "from-file"
jwt_expiration = "2h"
server_port = "9000"
cors_origins = ["https://a.example", "https://b.example"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://c.example, https://d.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "file:erms.db" {
		t.Errorf("DatabaseURL: got %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.JWTExpiration != 2*time.Hour {
		t.Errorf("JWTExpiration: got %v", cfg.JWTExpiration)
	}
	if cfg.ServerPort != "9100" {
		t.Errorf("ServerPort: env should win, got %q", cfg.ServerPort)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://d.example" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid JWT_EXPIRATION")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty secret")
	}

	cfg = Default()
	cfg.JWTExpiration = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero expiration")
	}

	cfg = Default()
	cfg.BcryptCost = 99
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out of range bcrypt cost")
	}
}
