package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.SessionTokenExpiry != 24*time.Hour {
		t.Errorf("SessionTokenExpiry: got %v, want %v", cfg.Auth.SessionTokenExpiry, 24*time.Hour)
	}
	if cfg.Auth.GoogleSessionTTL != 7*24*time.Hour {
		t.Errorf("GoogleSessionTTL: got %v, want %v", cfg.Auth.GoogleSessionTTL, 7*24*time.Hour)
	}
	if cfg.Auth.GoogleClientID != "" {
		t.Errorf("GoogleClientID: got %q, want empty (feature disabled by default)", cfg.Auth.GoogleClientID)
	}
	if cfg.Email.Provider != "log" {
		t.Errorf("Email.Provider: got %q, want %q", cfg.Email.Provider, "log")
	}
	if cfg.Server.Port != "3333" {
		t.Errorf("Server.Port: got %q, want %q", cfg.Server.Port, "3333")
	}
	if cfg.Server.Version != "1.0.0" {
		t.Errorf("Server.Version: got %q, want %q", cfg.Server.Version, "1.0.0")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() without JWT_SECRET should fail")
	}
}

func TestLoad_WeakJWTSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a short JWT_SECRET should fail")
	}
}

func TestLoad_MissingDBPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() without DB_PASSWORD should fail")
	}
}

func TestLoad_SMTPAutoDetected(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_USER", "suporte@twendy.app")
	os.Setenv("SMTP_PASS", "app-password")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Email.Provider != "smtp" {
		t.Errorf("Email.Provider: got %q, want %q", cfg.Email.Provider, "smtp")
	}
}

func TestLoad_SMTPIncomplete(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("EMAIL_PROVIDER", "smtp")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	// SMTP_USER and SMTP_PASS missing
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with incomplete smtp settings should fail")
	}
}

func TestLoad_LogProviderRejectedInProduction(t *testing.T) {
	os.Setenv("JWT_SECRET", "a-production-grade-secret-with-32-chars!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() in production without an email provider should fail")
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("EMAIL_PROVIDER", "carrier-pigeon")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with unknown EMAIL_PROVIDER should fail")
	}
}
