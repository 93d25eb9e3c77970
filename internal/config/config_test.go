// ABOUTME: Tests for twitter-mcp configuration loading and env overlays.
// ABOUTME: Covers YAML parsing, .env and environment overrides, and credential detection.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var credentialEnv = []string{
	"X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_TOKEN_SECRET",
	"X_BEARER_TOKEN", "X_API_BASE_URL", "X_UPLOAD_BASE_URL", "X_REQUESTS_PER_SECOND",
	"SOCIALDATA_API_KEY", "SOCIALDATA_BASE_URL",
	"TWITTER_MCP_LOG_LEVEL", "TWITTER_MCP_LOG_FILE",
}

// isolate points config lookups at a temp dir and blanks credential variables.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range credentialEnv {
		t.Setenv(key, "")
	}
	return tmpDir
}

func writeConfig(t *testing.T, dir, data string) {
	t.Helper()
	configDir := filepath.Join(dir, "twitter-mcp")
	require.NoError(t, os.MkdirAll(configDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(data), 0600))
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/logs/mcp.log", filepath.Join(home, "logs", "mcp.log")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.HasTwitter())
	assert.False(t, cfg.HasSocialData())
	assert.Equal(t, DefaultTwitterAPIURL, cfg.TwitterAPIURL())
	assert.Equal(t, DefaultTwitterUploadURL, cfg.TwitterUploadURL())
	assert.Equal(t, DefaultSocialDataURL, cfg.SocialDataURL())
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `twitter:
  api_key: "k"
  api_secret: "s"
  access_token: "t"
  access_token_secret: "ts"
  api_url: "https://x.example.com/"
  requests_per_second: 2.5
socialdata:
  api_key: "sd-key"
log:
  level: debug
  file: "~/twitter-mcp.log"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasTwitterUserContext())
	assert.True(t, cfg.HasTwitter())
	assert.True(t, cfg.HasSocialData())
	assert.Equal(t, "https://x.example.com", cfg.TwitterAPIURL())
	assert.Equal(t, 2.5, cfg.Twitter.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Log.Level)

	home, _ := os.UserHomeDir()
	logPath, err := cfg.GetLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "twitter-mcp.log"), logPath)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "twitter: [unterminated")

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `socialdata:
  api_key: "from-file"
`)
	t.Setenv("SOCIALDATA_API_KEY", "from-env")
	t.Setenv("X_BEARER_TOKEN", "bearer")
	t.Setenv("X_REQUESTS_PER_SECOND", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SocialData.APIKey)
	assert.Equal(t, "bearer", cfg.Twitter.BearerToken)
	assert.Equal(t, 4.0, cfg.Twitter.RequestsPerSecond)
	assert.True(t, cfg.HasTwitter(), "bearer token alone enables read access")
	assert.False(t, cfg.HasTwitterUserContext())
}

func TestInvalidRequestsPerSecond(t *testing.T) {
	isolate(t)
	t.Setenv("X_REQUESTS_PER_SECOND", "fast")

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Twitter: TwitterConfig{
			APIKey:            "saved-key",
			APISecret:         "saved-secret",
			AccessToken:       "saved-token",
			AccessTokenSecret: "saved-token-secret",
		},
		SocialData: SocialDataConfig{APIKey: "saved-sd"},
	}
	require.NoError(t, cfg.Save())

	path, err := GetConfigPath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Twitter, loaded.Twitter)
	assert.Equal(t, "saved-sd", loaded.SocialData.APIKey)
}

func TestHasTwitterUserContextPartial(t *testing.T) {
	cfg := &Config{Twitter: TwitterConfig{APIKey: "key", APISecret: "secret"}}
	assert.False(t, cfg.HasTwitterUserContext())
	assert.False(t, cfg.HasTwitter())
}
