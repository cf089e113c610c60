// ABOUTME: Configuration for the Charm KV credential backend
// ABOUTME: Loads server host and auto-sync preference from disk with env overrides

package charm

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the Charm KV database that holds crmlink credentials.
	AppName = "crmlink"

	configFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	Host     string `json:"host,omitempty"`
	AutoSync bool   `json:"auto_sync"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultCharmHost,
		AutoSync: true,
	}
}

// ConfigPath returns the XDG path of the charm config file.
func ConfigPath() string {
	return filepath.Join(xdg.DataHome, AppName, configFileName)
}

// LoadConfig reads the config file, falling back to defaults when it is
// missing or unreadable. CRMLINK_CHARM_HOST overrides the host.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			cfg = DefaultConfig()
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if host := os.Getenv("CRMLINK_CHARM_HOST"); host != "" {
		cfg.Host = host
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}

	return cfg, nil
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
