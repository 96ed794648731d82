// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
	require.NoError(t, os.Chdir(dir))
}

func validConfig() *Config {
	cfg := Default()
	cfg.SiteURL = "example.com"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.SiteURL)
	assert.Empty(t, cfg.APIRoot)
	assert.Equal(t, "none", cfg.Auth.Mode)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Empty(t, cfg.HTTP.UserAgent)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.False(t, cfg.HTTP.InsecureSkipVerify)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_NoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	// Should return default config
	assert.Equal(t, "none", cfg.Auth.Mode)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_YAMLConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
siteUrl: example.com/wp-admin
auth:
  mode: cookie
  username: editor
http:
  timeout: 5s
  userAgent: "my-agent/1.0"
  maxRetries: 0
  insecureSkipVerify: true
output:
  format: yaml
`
	err := os.WriteFile(filepath.Join(tmpDir, "wpapi.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "example.com/wp-admin", cfg.SiteURL)
	assert.Equal(t, "cookie", cfg.Auth.Mode)
	assert.Equal(t, "editor", cfg.Auth.Username)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "my-agent/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	assert.True(t, cfg.HTTP.InsecureSkipVerify)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoad_JSONConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `{
  "apiRoot": "https://example.com/wp-json/",
  "auth": {
    "mode": "application-password",
    "username": "admin"
  },
  "output": {
    "format": "json"
  }
}`
	err := os.WriteFile(filepath.Join(tmpDir, "wpapi.json"), []byte(configContent), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/wp-json/", cfg.APIRoot)
	assert.Equal(t, "application-password", cfg.Auth.Mode)
	assert.Equal(t, "json", cfg.Output.Format)
	// Unset keys keep their defaults
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_DotPrefixedConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, ".wpapi.yaml"), []byte("siteUrl: dotted.test\n"), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dotted.test", cfg.SiteURL)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	err := os.WriteFile(configPath, []byte("siteUrl: custom.test\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "custom.test", cfg.SiteURL)
}

func TestLoad_ExplicitConfigPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wpapi.yaml")
	err := os.WriteFile(configPath, []byte("siteUrl: [unterminated\n"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_ConfigFilePriority(t *testing.T) {
	tmpDir := t.TempDir()

	// Create both wpapi.yaml and .wpapi.yaml
	// wpapi.yaml should take priority
	err := os.WriteFile(filepath.Join(tmpDir, "wpapi.yaml"), []byte("siteUrl: first.test\n"), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, ".wpapi.yaml"), []byte("siteUrl: second.test\n"), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "first.test", cfg.SiteURL)
	assert.Equal(t, "wpapi.yaml", ConfigFilePath())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "wpapi.yaml"), []byte("siteUrl: file.test\nauth:\n  mode: cookie\n  username: fromfile\n"), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)

	t.Setenv("WPAPI_AUTH_PASSWORD", "from-env")
	t.Setenv("WPAPI_AUTH_USERNAME", "envuser")
	t.Setenv("WPAPI_HTTP_TIMEOUT", "7s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file.test", cfg.SiteURL)
	assert.Equal(t, "envuser", cfg.Auth.Username)
	assert.Equal(t, "from-env", cfg.Auth.Password)
	assert.Equal(t, 7*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "envuser", cfg.Credentials().Username)
}

func TestLoad_DotEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("WPAPI_SITEURL=dotenv.test\n"), 0644)
	require.NoError(t, err)
	chdir(t, tmpDir)
	t.Cleanup(func() { _ = os.Unsetenv("WPAPI_SITEURL") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dotenv.test", cfg.SiteURL)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "missing site",
			mutate: func(c *Config) { c.SiteURL = "" },
			field:  "siteUrl",
		},
		{
			name:   "invalid api root",
			mutate: func(c *Config) { c.APIRoot = "not a url" },
			field:  "apiRoot",
		},
		{
			name:   "invalid auth mode",
			mutate: func(c *Config) { c.Auth.Mode = "oauth" },
			field:  "auth.mode",
		},
		{
			name:   "cookie without username",
			mutate: func(c *Config) { c.Auth.Mode = "cookie" },
			field:  "auth.username",
		},
		{
			name:   "invalid format",
			mutate: func(c *Config) { c.Output.Format = "xml" },
			field:  "output.format",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.HTTP.Timeout = -time.Second },
			field:  "http.timeout",
		},
		{
			name:   "negative retries",
			mutate: func(c *Config) { c.HTTP.MaxRetries = -1 },
			field:  "http.maxRetries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var valErrs ValidationErrors
			require.ErrorAs(t, err, &valErrs)
			assert.Len(t, valErrs, 1)
			assert.Equal(t, tt.field, valErrs[0].Field)
		})
	}
}

func TestValidate_APIRootWithoutSite(t *testing.T) {
	cfg := Default()
	cfg.APIRoot = "https://example.com/wp-json/"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Auth.Mode = "invalid"
	cfg.Output.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 3)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "auth.mode",
		Message: "unsupported mode",
	}
	assert.Contains(t, err.Error(), "auth.mode")
	assert.Contains(t, err.Error(), "unsupported mode")
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "field1", Message: "error1"},
		{Field: "field2", Message: "error2"},
	}
	errStr := errs.Error()
	assert.Contains(t, errStr, "field1")
	assert.Contains(t, errStr, "error1")
	assert.Contains(t, errStr, "field2")
	assert.Contains(t, errStr, "error2")
}

func TestValidationErrors_ErrorEmpty(t *testing.T) {
	errs := ValidationErrors{}
	assert.Equal(t, "no validation errors", errs.Error())
}

func TestValidationErrors_ErrorSingle(t *testing.T) {
	errs := ValidationErrors{
		{Field: "field1", Message: "error1"},
	}
	// Single error should use the ValidationError format
	assert.Contains(t, errs.Error(), "config validation error")
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "wpapi.yaml"), []byte("siteUrl: frompath.test\n"), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "frompath.test", cfg.SiteURL)
}

func TestLoadFromPath_NoConfig(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	cfg, err := LoadFromPath(tmpDir)
	require.NoError(t, err)

	// Should return default config
	assert.Equal(t, "none", cfg.Auth.Mode)
}
