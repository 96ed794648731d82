// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for wpapi.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/wpapi/wpapi/pkg/auth"
	"github.com/wpapi/wpapi/pkg/types"
)

// EnvPrefix is prepended to every environment override, e.g. WPAPI_AUTH_PASSWORD.
const EnvPrefix = "WPAPI"

// Config represents the wpapi configuration.
type Config struct {
	// SiteURL is the site address as a user would type it
	SiteURL string `mapstructure:"siteUrl" yaml:"siteUrl" json:"siteUrl"`

	// APIRoot skips discovery when set
	APIRoot string `mapstructure:"apiRoot" yaml:"apiRoot,omitempty" json:"apiRoot,omitempty"`

	// Auth contains authentication configuration
	Auth AuthConfig `mapstructure:"auth" yaml:"auth" json:"auth"`

	// HTTP contains transport configuration
	HTTP HTTPConfig `mapstructure:"http" yaml:"http" json:"http"`

	// Output contains report output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// AuthConfig contains authentication configuration.
type AuthConfig struct {
	// Mode is the authentication scheme (none, application-password, cookie)
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// Username is the WordPress user name
	Username string `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`

	// Password is a login password (cookie) or an application password.
	// Prefer setting it through WPAPI_AUTH_PASSWORD.
	Password string `mapstructure:"password" yaml:"password,omitempty" json:"password,omitempty"`
}

// HTTPConfig contains transport configuration.
type HTTPConfig struct {
	// Timeout bounds each request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// UserAgent is sent with every request; empty means wpapi/<version>
	UserAgent string `mapstructure:"userAgent" yaml:"userAgent" json:"userAgent"`

	// MaxRetries is the number of retries after a transport failure
	MaxRetries int `mapstructure:"maxRetries" yaml:"maxRetries" json:"maxRetries"`

	// InsecureSkipVerify disables TLS certificate checks
	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify" yaml:"insecureSkipVerify" json:"insecureSkipVerify"`
}

// OutputConfig contains report output configuration.
type OutputConfig struct {
	// Format is the report format (text, yaml, json)
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"wpapi.yaml",
	"wpapi.json",
	".wpapi.yaml",
	".wpapi.json",
}

// dotEnvFile is loaded, when present, before environment overrides are read.
const dotEnvFile = ".env"

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"text",
	"yaml",
	"json",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{
			Mode: string(auth.ModeNone),
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load loads the configuration from a file, a .env file and the environment.
// It searches for config files in the following order:
// 1. wpapi.yaml
// 2. wpapi.json
// 3. .wpapi.yaml
// 4. .wpapi.json
//
// If configPath is provided, it will use that path instead. Environment
// variables prefixed with WPAPI_ override file values; nested keys use an
// underscore, e.g. WPAPI_HTTP_TIMEOUT.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		// Use the provided config path
		v.SetConfigFile(configPath)
	} else if name := ConfigFilePath(); name != "" {
		v.SetConfigFile(name)
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Load("")
}

// loadDotEnv exports the variables of path into the process environment.
// Variables that are already set win; a missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets the default values for viper. Every key must have a
// default for environment overrides to be picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("siteUrl", d.SiteURL)
	v.SetDefault("apiRoot", d.APIRoot)
	v.SetDefault("auth.mode", d.Auth.Mode)
	v.SetDefault("auth.username", d.Auth.Username)
	v.SetDefault("auth.password", d.Auth.Password)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.userAgent", d.HTTP.UserAgent)
	v.SetDefault("http.maxRetries", d.HTTP.MaxRetries)
	v.SetDefault("http.insecureSkipVerify", d.HTTP.InsecureSkipVerify)
	v.SetDefault("output.format", d.Output.Format)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	// Validate site url
	if c.SiteURL == "" && c.APIRoot == "" {
		errs = append(errs, ValidationError{
			Field:   "siteUrl",
			Message: "siteUrl or apiRoot is required",
		})
	}

	// Validate api root
	if c.APIRoot != "" {
		if _, err := types.ParseAPIBaseURL(c.APIRoot); err != nil {
			errs = append(errs, ValidationError{
				Field:   "apiRoot",
				Message: err.Error(),
			})
		}
	}

	// Validate auth mode
	mode, err := auth.ParseMode(c.Auth.Mode)
	if err != nil {
		names := make([]string, 0, len(auth.Modes()))
		for _, m := range auth.Modes() {
			names = append(names, string(m))
		}
		errs = append(errs, ValidationError{
			Field:   "auth.mode",
			Message: fmt.Sprintf("unsupported mode %q, must be one of: %s", c.Auth.Mode, strings.Join(names, ", ")),
		})
	} else if mode != auth.ModeNone && c.Auth.Username == "" {
		errs = append(errs, ValidationError{
			Field:   "auth.username",
			Message: fmt.Sprintf("username is required for auth mode %s", mode),
		})
	}

	// Validate format
	if c.Output.Format != "" && !contains(supportedFormats, c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Output.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	// Validate http settings
	if c.HTTP.Timeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "http.timeout",
			Message: "timeout must be non-negative",
		})
	}

	if c.HTTP.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "http.maxRetries",
			Message: "maxRetries must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Credentials returns the configured user credentials.
func (c *Config) Credentials() types.Credentials {
	return types.Credentials{Username: c.Auth.Username, Password: c.Auth.Password}
}

// ConfigFilePath returns the path of the config file in the working
// directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
