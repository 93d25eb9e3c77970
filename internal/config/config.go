// ABOUTME: Configuration management for twitter-mcp with YAML, .env and env overlays.
// ABOUTME: Holds X API and SocialData.tools credentials plus logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default upstream endpoints.
const (
	DefaultTwitterAPIURL    = "https://api.twitter.com"
	DefaultTwitterUploadURL = "https://upload.twitter.com"
	DefaultSocialDataURL    = "https://api.socialdata.tools"
)

// Config stores twitter-mcp configuration loaded from ~/.config/twitter-mcp/config.yaml.
type Config struct {
	Twitter    TwitterConfig    `yaml:"twitter"`
	SocialData SocialDataConfig `yaml:"socialdata"`
	Log        LogConfig        `yaml:"log"`
}

// TwitterConfig holds X API credentials and endpoints.
type TwitterConfig struct {
	APIKey            string  `yaml:"api_key"`
	APISecret         string  `yaml:"api_secret"`
	AccessToken       string  `yaml:"access_token"`
	AccessTokenSecret string  `yaml:"access_token_secret"`
	BearerToken       string  `yaml:"bearer_token,omitempty"`
	APIURL            string  `yaml:"api_url,omitempty"`
	UploadURL         string  `yaml:"upload_url,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
}

// SocialDataConfig holds SocialData.tools settings.
type SocialDataConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// LogConfig controls structured logging. Logs never go to stdout.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// HasTwitterUserContext returns true if all four OAuth 1.0a credentials are set.
func (c *Config) HasTwitterUserContext() bool {
	t := c.Twitter
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessTokenSecret != ""
}

// HasTwitter returns true if any usable X API credential set is configured.
func (c *Config) HasTwitter() bool {
	return c.HasTwitterUserContext() || c.Twitter.BearerToken != ""
}

// HasSocialData returns true if a SocialData.tools API key is configured.
func (c *Config) HasSocialData() bool {
	return c.SocialData.APIKey != ""
}

// TwitterAPIURL returns the configured X API base URL or the default.
func (c *Config) TwitterAPIURL() string {
	if c.Twitter.APIURL != "" {
		return strings.TrimRight(c.Twitter.APIURL, "/")
	}
	return DefaultTwitterAPIURL
}

// TwitterUploadURL returns the configured media upload base URL or the default.
func (c *Config) TwitterUploadURL() string {
	if c.Twitter.UploadURL != "" {
		return strings.TrimRight(c.Twitter.UploadURL, "/")
	}
	return DefaultTwitterUploadURL
}

// SocialDataURL returns the configured SocialData base URL or the default.
func (c *Config) SocialDataURL() string {
	if c.SocialData.BaseURL != "" {
		return strings.TrimRight(c.SocialData.BaseURL, "/")
	}
	return DefaultSocialDataURL
}

// GetLogPath returns the expanded log file path, or "" for stderr.
func (c *Config) GetLogPath() (string, error) {
	return ExpandPath(c.Log.File)
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "twitter-mcp", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// LoadFile reads only the YAML config file. Returns an empty config if the file doesn't exist.
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads the YAML config, loads ./.env without overriding the process
// environment, then applies environment variables on top.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values with any set environment variables.
func (c *Config) ApplyEnv() error {
	overrides := []struct {
		key string
		dst *string
	}{
		{"X_API_KEY", &c.Twitter.APIKey},
		{"X_API_SECRET", &c.Twitter.APISecret},
		{"X_ACCESS_TOKEN", &c.Twitter.AccessToken},
		{"X_ACCESS_TOKEN_SECRET", &c.Twitter.AccessTokenSecret},
		{"X_BEARER_TOKEN", &c.Twitter.BearerToken},
		{"X_API_BASE_URL", &c.Twitter.APIURL},
		{"X_UPLOAD_BASE_URL", &c.Twitter.UploadURL},
		{"SOCIALDATA_API_KEY", &c.SocialData.APIKey},
		{"SOCIALDATA_BASE_URL", &c.SocialData.BaseURL},
		{"TWITTER_MCP_LOG_LEVEL", &c.Log.Level},
		{"TWITTER_MCP_LOG_FILE", &c.Log.File},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}

	if v := os.Getenv("X_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid X_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		c.Twitter.RequestsPerSecond = rps
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
