package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the relay configuration.
//
// Values come from a TOML file and are overridden by environment variables.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Frontend    FrontendConfig    `toml:"frontend"`
	Callback    CallbackConfig    `toml:"callback"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify application credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"REDIRECT_URI"`
}

// FrontendConfig points at the application that receives the access token.
type FrontendConfig struct {
	URI string `toml:"uri" env:"FRONTEND_URI"`
}

// CallbackConfig controls how /callback treats its input.
type CallbackConfig struct {
	// RequireCode rejects a callback without a code before the upstream is contacted.
	RequireCode bool `toml:"require_code" env:"REQUIRE_CODE"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides config values with environment variables.
//
// Each file in envFiles is loaded with [godotenv.Load] first; variables already present in the
// environment win over values from the files. Missing files are ignored.
func ApplyEnv(config *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: failed to parse environment: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Load builds the effective configuration: embedded defaults, then the TOML file at path
// (skipped when it does not exist), then .env, then the process environment.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config, ".env"); err != nil {
		return nil, err
	}

	return config, nil
}

// Missing returns the names of the required settings that are empty.
//
// Absent settings are not fatal: the relay still starts and the upstream rejects the
// malformed requests.
func (c *Config) Missing() []string {
	var missing []string
	for _, kv := range []struct {
		name  string
		value string
	}{
		{"SPOTIFY_CLIENT_ID", c.Credentials.Spotify.ClientID},
		{"SPOTIFY_CLIENT_SECRET", c.Credentials.Spotify.ClientSecret},
		{"REDIRECT_URI", c.Credentials.Spotify.RedirectURI},
		{"FRONTEND_URI", c.Frontend.URI},
	} {
		if kv.value == "" {
			missing = append(missing, kv.name)
		}
	}
	return missing
}

// Masked returns a copy of the config with the client secret hidden, safe for printing.
func (c *Config) Masked() Config {
	masked := *c
	if masked.Credentials.Spotify.ClientSecret != "" {
		masked.Credentials.Spotify.ClientSecret = "********"
	}
	return masked
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
