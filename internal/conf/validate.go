// validate.go - validation of loaded settings
package conf

import (
	"github.com/wownom/feedback-collector/internal/errors"
)

// ValidateSettings checks the loaded settings for consistency.
func ValidateSettings(settings *Settings) error {
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return errors.Newf("only one database output can be enabled at a time").
			Category(errors.CategoryConfiguration).
			Context("setting", "output").
			Build()
	}

	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		return errors.Newf("no database output enabled, enable either SQLite or MySQL").
			Category(errors.CategoryConfiguration).
			Context("setting", "output").
			Build()
	}

	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		return errors.Newf("SQLite output enabled but no database path configured").
			Category(errors.CategoryConfiguration).
			Context("setting", "output.sqlite.path").
			Build()
	}

	rl := settings.WebServer.RateLimit
	if rl.Correction <= 0 || rl.Export <= 0 || rl.Stats <= 0 {
		return errors.Newf("rate limit quotas must be positive").
			Category(errors.CategoryConfiguration).
			Context("setting", "webserver.ratelimit").
			Build()
	}

	return nil
}
