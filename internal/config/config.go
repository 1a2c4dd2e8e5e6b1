package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// PathsConfig contains filesystem layout settings
type PathsConfig struct {
	// IncludeDir is the root of the per-category layout:
	// {IncludeDir}/{category}/{category}.ini
	IncludeDir string `mapstructure:"include_dir" yaml:"include_dir"`
}

// GitHubConfig contains remote API settings
type GitHubConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	Token      string        `mapstructure:"token" yaml:"token"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// FetchConfig contains fetch pacing settings
type FetchConfig struct {
	// Delay is slept before every fetch after the first within a category,
	// to stay under the unauthenticated API rate limit.
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and clamps invalid values back to
// their defaults.
func (c *Config) Validate() error {
	if c.Paths.IncludeDir == "" {
		return fmt.Errorf("paths.include_dir must not be empty")
	}
	if c.GitHub.APIBaseURL == "" {
		c.GitHub.APIBaseURL = DefaultAPIBaseURL
	}
	if c.GitHub.UserAgent == "" {
		c.GitHub.UserAgent = DefaultUserAgent
	}
	if c.GitHub.Timeout < time.Second {
		c.GitHub.Timeout = DefaultTimeout
	}
	if c.Fetch.Delay < 0 {
		c.Fetch.Delay = DefaultFetchDelay
	}
	return nil
}

// HasToken reports whether an API token is configured.
func (c *Config) HasToken() bool {
	return c.GitHub.Token != ""
}
