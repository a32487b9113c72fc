// config.go: This file contains the configuration for the feedback collector. It defines the settings struct and functions to load the settings.
package conf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/viper"

	"github.com/wownom/feedback-collector/internal/errors"
)

// RotationType defines the log rotation strategy
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

const osWindows = "windows"

// LogConfig contains settings for file logging and rotation
type LogConfig struct {
	Enabled  bool         // true to enable file logging
	Path     string       // path to log file
	Rotation RotationType // rotation strategy, "daily", "weekly" or "size"
	MaxSize  int64        // max log file size in bytes for size rotation
}

// MainSettings contains general application settings
type MainSettings struct {
	Name string    // name of the service instance
	Log  LogConfig // log settings
}

// RateLimitSettings holds per-endpoint request quotas, in requests per minute per client
type RateLimitSettings struct {
	Correction int // quota for correction intake
	Export     int // quota for export streaming
	Stats      int // quota for stats queries
}

// WebServerSettings contains HTTP server settings
type WebServerSettings struct {
	Debug          bool              // true to enable debug logging of requests
	Host           string            // host address to bind to
	Port           string            // port to listen on
	AllowedOrigins []string          // allowed CORS origins
	BodyLimit      string            // request body size limit, e.g. "1M"
	RateLimit      RateLimitSettings // per-endpoint rate limits
}

// SecuritySettings contains authentication settings
type SecuritySettings struct {
	APIKeys []string // accepted bearer API keys; empty disables authenticated endpoints
}

// SQLiteSettings contains SQLite database settings
type SQLiteSettings struct {
	Enabled bool   // true to enable SQLite
	Path    string // path to SQLite database file
}

// MySQLSettings contains MySQL database settings
type MySQLSettings struct {
	Enabled  bool   // true to enable MySQL
	Username string // MySQL username
	Password string // MySQL password
	Host     string // MySQL host
	Port     string // MySQL port
	Database string // MySQL database name
}

// OutputSettings contains settings for the relational store
type OutputSettings struct {
	Debug       bool           // true to enable SQL statement tracing
	AutoMigrate bool           // true to create/upgrade tables on startup
	SQLite      SQLiteSettings // SQLite settings
	MySQL       MySQLSettings  // MySQL settings
}

// TaxonomySettings contains settings for the dish taxonomy bootstrap
type TaxonomySettings struct {
	Path string // path to the taxonomy JSON document
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug mode

	Version   string `yaml:"-"` // runtime value, not stored in config
	BuildDate string `yaml:"-"` // runtime value, not stored in config

	Main      MainSettings
	WebServer WebServerSettings
	Security  SecuritySettings
	Output    OutputSettings
	Taxonomy  TaxonomySettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into the settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Get OS specific config paths
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Bind environment variables with validation
	// function defined in env.go
	if err := bindEnvVars(); err != nil {
		return fmt.Errorf("error binding environment variables: %w", err)
	}

	// Read configuration file; a missing file is fine, defaults and env cover it
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
	}

	return nil
}

// GetDefaultConfigPaths returns the default config file locations for the current OS.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case osWindows:
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "feedback-collector"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "feedback-collector"),
			"/etc/feedback-collector",
			".",
		}
	}

	return configPaths, nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}
