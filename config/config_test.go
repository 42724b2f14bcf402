// ABOUTME: Tests for persisted configuration
// ABOUTME: Covers round-tripping, env overrides, and credential validation
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leduardoseverino/performancy/models"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv("PERFORMANCY_ZOHO_CLIENT_ID", "")
	t.Setenv("PERFORMANCY_ZOHO_CLIENT_SECRET", "")
	t.Setenv("PERFORMANCY_ZOHO_REFRESH_TOKEN", "")
	t.Setenv("PERFORMANCY_ZOHO_DOMAIN", "")
}

func TestLoadFromMissingFile(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.json"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if cfg.Zoho != nil {
		t.Error("Expected empty config for missing file")
	}
	if cfg.SidebarCollapsed {
		t.Error("Expected sidebar default false")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{
		Zoho: &models.ZohoConfig{
			ClientID:     "id-1",
			ClientSecret: "secret-1",
			RefreshToken: "token-1",
			Domain:       "eu",
		},
		SidebarCollapsed: true,
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Zoho == nil {
		t.Fatal("Zoho config missing after round trip")
	}
	if loaded.Zoho.ClientID != "id-1" || loaded.Zoho.Domain != "eu" {
		t.Errorf("Zoho config mangled: %+v", loaded.Zoho)
	}
	if !loaded.SidebarCollapsed {
		t.Error("SidebarCollapsed lost in round trip")
	}
}

func TestSaveFilePermissions(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{Zoho: &models.ZohoConfig{
		ClientID: "id", ClientSecret: "secret", RefreshToken: "token", Domain: "com",
	}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600 for credential file, got %o", info.Mode().Perm())
	}
}

func TestSaveRejectsInvalidCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{Zoho: &models.ZohoConfig{ClientID: "only-id", Domain: "com"}}
	err := cfg.SaveTo(path)
	if err == nil {
		t.Fatal("Expected validation error for incomplete credentials")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if len(vErr.Problems) != 2 {
		t.Errorf("Expected 2 problems (secret, token), got %v", vErr.Problems)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Invalid config should not be written to disk")
	}
}

func TestEnvOverridesFileValues(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{Zoho: &models.ZohoConfig{
		ClientID: "file-id", ClientSecret: "file-secret", RefreshToken: "file-token", Domain: "com",
	}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	t.Setenv("PERFORMANCY_ZOHO_CLIENT_ID", "env-id")
	t.Setenv("PERFORMANCY_ZOHO_DOMAIN", "in")

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Zoho.ClientID != "env-id" {
		t.Errorf("Env should override file client id, got %s", loaded.Zoho.ClientID)
	}
	if loaded.Zoho.Domain != "in" {
		t.Errorf("Env should override file domain, got %s", loaded.Zoho.Domain)
	}
	// Fields without an env override keep the file values
	if loaded.Zoho.ClientSecret != "file-secret" {
		t.Errorf("File secret lost: %s", loaded.Zoho.ClientSecret)
	}
}

func TestEnvOverridesWithoutFile(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("PERFORMANCY_ZOHO_CLIENT_ID", "env-id")
	t.Setenv("PERFORMANCY_ZOHO_CLIENT_SECRET", "env-secret")
	t.Setenv("PERFORMANCY_ZOHO_REFRESH_TOKEN", "env-token")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Zoho == nil {
		t.Fatal("Env credentials should materialize a Zoho config")
	}
	if cfg.Zoho.ClientID != "env-id" || cfg.Zoho.RefreshToken != "env-token" {
		t.Errorf("Env credentials not applied: %+v", cfg.Zoho)
	}
}

func TestValidateZoho(t *testing.T) {
	valid := models.ZohoConfig{
		ClientID: "id", ClientSecret: "secret", RefreshToken: "token", Domain: "com.au",
	}
	if err := ValidateZoho(valid); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	invalid := valid
	invalid.Domain = "dev"
	if err := ValidateZoho(invalid); err == nil {
		t.Error("Unknown domain accepted")
	}

	if err := ValidateZoho(models.ZohoConfig{}); err == nil {
		t.Error("Empty config accepted")
	}
}
