package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Paths defaults
	DefaultIncludeDir = "./include"

	// GitHub defaults
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultUserAgent  = "releasegen/1.0"
	DefaultTimeout    = 10 * time.Second

	// Fetch defaults
	DefaultFetchDelay = 500 * time.Millisecond

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".releasegen"
	}
	return filepath.Join(home, ".releasegen")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			IncludeDir: DefaultIncludeDir,
		},
		GitHub: GitHubConfig{
			APIBaseURL: DefaultAPIBaseURL,
			UserAgent:  DefaultUserAgent,
			Timeout:    DefaultTimeout,
		},
		Fetch: FetchConfig{
			Delay: DefaultFetchDelay,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
