package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML (or YAML) file.
type Config struct {
	LogLevel    string                  `toml:"log_level" yaml:"log_level"`
	Credentials CredentialsConfig       `toml:"credentials" yaml:"credentials"`
	Paths       PathsConfig             `toml:"paths" yaml:"paths"`
	Presets     map[string]PresetConfig `toml:"presets" yaml:"presets"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Mixcloud MixcloudConfig `toml:"mixcloud" yaml:"mixcloud"`
}

// MixcloudConfig contains Mixcloud API credentials.
type MixcloudConfig struct {
	ClientID     string `toml:"client_id" yaml:"client_id"`
	ClientSecret string `toml:"client_secret" yaml:"client_secret"`
	AccessToken  string `toml:"access_token" yaml:"access_token"`
}

// PathsConfig contains filesystem locations.
type PathsConfig struct {
	RecordingsDir string `toml:"recordings_dir" yaml:"recordings_dir"`
	OutputDir     string `toml:"output_dir" yaml:"output_dir"`
	CachedAuth    string `toml:"cached_auth" yaml:"cached_auth"`
	Database      string `toml:"database" yaml:"database"`
}

// PresetConfig holds defaults for a recurring mix series.
type PresetConfig struct {
	Name        string   `toml:"name" yaml:"name"`
	Artwork     string   `toml:"artwork" yaml:"artwork"`
	Tags        []string `toml:"tags" yaml:"tags"`
	Description string   `toml:"description" yaml:"description"`
}

// HasClient reports whether both client id and secret are set.
func (m MixcloudConfig) HasClient() bool {
	return m.ClientID != "" && m.ClientSecret != ""
}

// Preset returns the preset stored under key.
func (c *Config) Preset(key string) (PresetConfig, error) {
	p, ok := c.Presets[key]
	if !ok {
		return PresetConfig{}, fmt.Errorf("%w: %q", ErrPresetNotFound, key)
	}
	return p, nil
}

func (c *Config) expandPaths() {
	c.Paths.RecordingsDir = ExpandHome(c.Paths.RecordingsDir)
	c.Paths.OutputDir = ExpandHome(c.Paths.OutputDir)
	c.Paths.CachedAuth = ExpandHome(c.Paths.CachedAuth)
	c.Paths.Database = ExpandHome(c.Paths.Database)
	for k, p := range c.Presets {
		p.Artwork = ExpandHome(p.Artwork)
		c.Presets[k] = p
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
// Values missing from the file fall back to [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Presets = nil

	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.expandPaths()
	return config, nil
}

// LoadConfigOrDefault loads the config at path, returning [DefaultConfig] when the file doesn't exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, ErrMissingConfig) {
		return DefaultConfig(), nil
	}
	return config, err
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.expandPaths()
	return &config
}

// DefaultConfigPath returns ~/.config/mixup/config.toml, or config.toml when the home directory is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "mixup", "config.toml")
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes config to path in the format implied by its extension. The file may hold credentials, so it is written owner-only.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrMissingArgument)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		err = enc.Encode(config)
	} else {
		err = toml.NewEncoder(f).Encode(config)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CachedAuth is the token cache written after a successful browser login.
type CachedAuth struct {
	AccessToken string `toml:"access_token"`
}

// LoadCachedAuth reads the token cache. A missing file yields an empty cache.
func LoadCachedAuth(path string) (*CachedAuth, error) {
	var cached CachedAuth
	if path == "" {
		return &cached, nil
	}

	if _, err := toml.DecodeFile(path, &cached); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cached, nil
		}
		return nil, fmt.Errorf("failed to read cached auth: %w", err)
	}
	return &cached, nil
}

// SaveCachedAuth writes the token cache with owner-only permissions.
func SaveCachedAuth(path string, cached *CachedAuth) error {
	if path == "" {
		return fmt.Errorf("%w: cached auth path", ErrMissingArgument)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create cached auth directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open cached auth: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cached); err != nil {
		return fmt.Errorf("failed to write cached auth: %w", err)
	}
	return nil
}
