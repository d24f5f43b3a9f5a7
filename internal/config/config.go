package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ktmcp-cli/xero/pkg/logging"
)

const (
	userConfigDir  = ".config/xero"
	configFileName = "config.yaml"
)

// DefaultScopes is the scope string requested when none is configured.
// offline_access is required for refresh tokens.
const DefaultScopes = "offline_access accounting.transactions accounting.contacts accounting.settings"

// Environment variables that seed client credentials when the store is empty.
const (
	EnvClientID     = "XERO_CLIENT_ID"
	EnvClientSecret = "XERO_CLIENT_SECRET"
)

// Config holds the non-secret CLI settings. Secrets live in the credential
// store, never here.
type Config struct {
	// CallbackPort is the local port for the OAuth callback listener.
	CallbackPort int `yaml:"callback_port"`

	// Scopes is the space-separated OAuth scope string for logins.
	Scopes string `yaml:"scopes"`

	// Output is the default output format: table or json.
	Output string `yaml:"output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CallbackPort: 8765,
		Scopes:       DefaultScopes,
		Output:       "table",
	}
}

// DefaultConfigPath returns the per-user config directory.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load reads config.yaml from the given directory. A missing file yields
// defaults; a malformed file is an error.
func Load(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	cfg := Default()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "no config.yaml at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	logging.Debug("Config", "loaded configuration from %s", configFilePath)
	return cfg, nil
}

// Save writes config.yaml to the given directory, creating it as needed.
func Save(configPath string, cfg Config) error {
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configFilePath := filepath.Join(configPath, configFileName)
	if err := os.WriteFile(configFilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file from the working directory when present and
// returns client credentials from the environment. The CLI uses these when
// the credential store holds none, so CI can bootstrap without running
// `xero config set`.
func LoadEnv() (clientID, clientSecret string) {
	// Missing .env is the normal case.
	_ = godotenv.Load()
	return os.Getenv(EnvClientID), os.Getenv(EnvClientSecret)
}
