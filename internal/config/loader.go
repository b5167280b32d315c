package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"authgate/pkg/logging"
)

const (
	userConfigDir  = ".config/authgate"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns the default configuration directory under the
// user's home directory.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// DefaultConfig returns the configuration defaults applied before the config
// file is read.
func DefaultConfig() Config {
	return Config{
		Scopes: []string{"openid", "profile", "email", "offline"},
		Storage: StorageConfig{
			Backend: StorageKeyring,
		},
	}
}

// Load reads config.yaml from the given directory, layered over defaults.
// A missing file yields the defaults; a malformed file is an error.
func Load(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	cfg := DefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// Validate rejects configurations the core cannot operate on. It is called
// once at startup; core components assume a validated Config.
func (c Config) Validate() error {
	if _, ok := c.GetIssuerURL(); !ok {
		return fmt.Errorf("issuerUrl is missing or malformed: %q", c.IssuerURL)
	}
	if c.ClientID == "" {
		return errors.New("clientId is required")
	}
	if _, ok := c.GetRedirectURL(); !ok {
		return fmt.Errorf("redirectUrl is missing or malformed: %q", c.RedirectURL)
	}
	if c.PostLogoutRedirectURL != "" {
		if _, ok := c.GetPostLogoutRedirectURL(); !ok {
			return fmt.Errorf("postLogoutRedirectUrl is malformed: %q", c.PostLogoutRedirectURL)
		}
	}
	switch c.Storage.Backend {
	case StorageKeyring, StorageFile, StorageMemory, "":
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	return nil
}
