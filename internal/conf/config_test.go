package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestSettings() *Settings {
	s := &Settings{}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "feedback.db"
	s.WebServer.RateLimit = RateLimitSettings{Correction: 10, Export: 5, Stats: 30}
	return s
}

func TestValidateSettings(t *testing.T) {
	require.NoError(t, ValidateSettings(validTestSettings()))
}

func TestValidateSettingsBothDatabasesEnabled(t *testing.T) {
	s := validTestSettings()
	s.Output.MySQL.Enabled = true

	err := ValidateSettings(s)
	assert.ErrorContains(t, err, "only one database output")
}

func TestValidateSettingsNoDatabaseEnabled(t *testing.T) {
	s := validTestSettings()
	s.Output.SQLite.Enabled = false

	err := ValidateSettings(s)
	assert.ErrorContains(t, err, "no database output enabled")
}

func TestValidateSettingsMissingSQLitePath(t *testing.T) {
	s := validTestSettings()
	s.Output.SQLite.Path = ""

	err := ValidateSettings(s)
	assert.ErrorContains(t, err, "no database path")
}

func TestValidateSettingsRateLimits(t *testing.T) {
	s := validTestSettings()
	s.WebServer.RateLimit.Export = 0

	err := ValidateSettings(s)
	assert.ErrorContains(t, err, "rate limit quotas")
}

func TestValidateEnvHelpers(t *testing.T) {
	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))

	assert.NoError(t, validateEnvPort("8080"))
	assert.Error(t, validateEnvPort("70000"))
	assert.Error(t, validateEnvPort("http"))

	assert.NoError(t, validateEnvOrigins("http://localhost:3000,https://app.example.com"))
	assert.Error(t, validateEnvOrigins("not a url"))
}
