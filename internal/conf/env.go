// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		// HTTP server
		{"webserver.host", "FEEDBACK_HOST", nil},
		{"webserver.port", "FEEDBACK_PORT", validateEnvPort},
		{"webserver.allowedorigins", "FEEDBACK_ALLOWED_ORIGINS", validateEnvOrigins},

		// Authentication
		{"security.apikeys", "FEEDBACK_API_KEYS", nil},

		// Relational store
		{"output.debug", "FEEDBACK_SQL_DEBUG", validateEnvBool},
		{"output.automigrate", "FEEDBACK_AUTO_MIGRATE", validateEnvBool},
		{"output.sqlite.enabled", "FEEDBACK_SQLITE_ENABLED", validateEnvBool},
		{"output.sqlite.path", "FEEDBACK_SQLITE_PATH", nil},
		{"output.mysql.enabled", "FEEDBACK_MYSQL_ENABLED", validateEnvBool},
		{"output.mysql.username", "FEEDBACK_MYSQL_USERNAME", nil},
		{"output.mysql.password", "FEEDBACK_MYSQL_PASSWORD", nil},
		{"output.mysql.host", "FEEDBACK_MYSQL_HOST", nil},
		{"output.mysql.port", "FEEDBACK_MYSQL_PORT", validateEnvPort},
		{"output.mysql.database", "FEEDBACK_MYSQL_DATABASE", nil},

		// Taxonomy bootstrap
		{"taxonomy.path", "FEEDBACK_TAXONOMY_PATH", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	bindings := getEnvBindings()
	var warnings []string

	for _, binding := range bindings {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		// Validate the value if it's set and a validation function is provided
		if binding.Validate != nil {
			if value := os.Getenv(binding.EnvVar); value != "" {
				if err := binding.Validate(value); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid value for %s: %v", binding.EnvVar, err))
				}
			}
		}
	}

	for _, warning := range warnings {
		log.Printf("Warning: %s", warning)
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be a boolean value, got %q", value)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535, got %q", value)
	}
	return nil
}

func validateEnvOrigins(value string) error {
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("origin %q is not a valid URL", origin)
		}
	}
	return nil
}
