package config

import (
	"os"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("ENCRYPTION_KEY", "01234567890123456789012345678901") // 32 bytes
	t.Setenv("AGGREGATOR_CLIENT_ID", "test-client-id")
	t.Setenv("AGGREGATOR_SECRET", "test-secret")
	t.Setenv("PAYMENTS_KEY", "test-key")
	t.Setenv("PAYMENTS_SECRET", "test-secret")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Session.CookieName != "horizon-session" {
		t.Errorf("Session.CookieName = %q, want %q", cfg.Session.CookieName, "horizon-session")
	}
	if cfg.Aggregator.ClientID != "test-client-id" {
		t.Errorf("Aggregator.ClientID = %q, want %q", cfg.Aggregator.ClientID, "test-client-id")
	}
}

func TestLoad_MissingEncryptionKey(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ENCRYPTION_KEY", "")
	os.Unsetenv("ENCRYPTION_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing ENCRYPTION_KEY, got nil")
	}
}

func TestLoad_InvalidEncryptionKeyLength(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ENCRYPTION_KEY", "too-short")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid ENCRYPTION_KEY length, got nil")
	}
}

func TestLoad_MissingAggregatorCredentials(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("AGGREGATOR_SECRET", "")
	os.Unsetenv("AGGREGATOR_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing AGGREGATOR_SECRET, got nil")
	}
}

func TestLoad_MissingPaymentsCredentials(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("PAYMENTS_KEY", "")
	os.Unsetenv("PAYMENTS_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing PAYMENTS_KEY, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_InvalidSessionMaxAge(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SESSION_MAX_AGE", "sometime")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid SESSION_MAX_AGE, got nil")
	}
}

func TestLoad_TLSValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for TLS enabled without cert path, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "app.horizon.test, api.horizon.test ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 2 {
		t.Fatalf("AllowedHosts = %v, want 2 entries", cfg.Server.AllowedHosts)
	}
	if cfg.Server.AllowedHosts[0] != "app.horizon.test" {
		t.Errorf("AllowedHosts[0] = %q, want %q", cfg.Server.AllowedHosts[0], "app.horizon.test")
	}
}
