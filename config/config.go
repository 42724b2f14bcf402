// ABOUTME: Persisted local configuration at XDG paths
// ABOUTME: Retains Zoho credentials and the sidebar flag across restarts, with env overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/leduardoseverino/performancy/models"
)

// AppName is the directory name under XDG data home.
const AppName = "performancy"

// Config is the only state retained across process restarts. The deal
// collection and metrics are not persisted; each fresh session reseeds from
// demo data or a remote fetch.
type Config struct {
	Zoho             *models.ZohoConfig `json:"zoho,omitempty"`
	SidebarCollapsed bool               `json:"sidebar_collapsed"`
}

// ValidationError reports a config save attempted with missing or invalid
// credential fields. Rejected before any network activity.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid zoho config: %s", strings.Join(e.Problems, ", "))
}

// Path returns the XDG-compliant config file path.
func Path() string {
	return filepath.Join(xdg.DataHome, AppName, "config.json")
}

// Load reads the config from the default path. A missing file yields an
// empty config. Environment variables override file values:
// - PERFORMANCY_ZOHO_CLIENT_ID
// - PERFORMANCY_ZOHO_CLIENT_SECRET
// - PERFORMANCY_ZOHO_REFRESH_TOKEN
// - PERFORMANCY_ZOHO_DOMAIN.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	clientID := os.Getenv("PERFORMANCY_ZOHO_CLIENT_ID")
	clientSecret := os.Getenv("PERFORMANCY_ZOHO_CLIENT_SECRET")
	refreshToken := os.Getenv("PERFORMANCY_ZOHO_REFRESH_TOKEN")
	domain := os.Getenv("PERFORMANCY_ZOHO_DOMAIN")

	if clientID == "" && clientSecret == "" && refreshToken == "" && domain == "" {
		return
	}

	if cfg.Zoho == nil {
		cfg.Zoho = &models.ZohoConfig{}
	}
	if clientID != "" {
		cfg.Zoho.ClientID = clientID
	}
	if clientSecret != "" {
		cfg.Zoho.ClientSecret = clientSecret
	}
	if refreshToken != "" {
		cfg.Zoho.RefreshToken = refreshToken
	}
	if domain != "" {
		cfg.Zoho.Domain = domain
	}
}

// Save validates and writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo validates and writes the config to an explicit path with
// credentials-grade file permissions.
func (c *Config) SaveTo(path string) error {
	if c.Zoho != nil {
		if err := ValidateZoho(*c.Zoho); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ValidateZoho checks that every required credential field is present and
// the domain belongs to the fixed regional set.
func ValidateZoho(zc models.ZohoConfig) error {
	var problems []string
	if zc.ClientID == "" {
		problems = append(problems, "client_id is required")
	}
	if zc.ClientSecret == "" {
		problems = append(problems, "client_secret is required")
	}
	if zc.RefreshToken == "" {
		problems = append(problems, "refresh_token is required")
	}
	if !models.ValidDomain(zc.Domain) {
		problems = append(problems, fmt.Sprintf("domain must be one of %s", strings.Join(models.ZohoDomains, ", ")))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
