// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Feedback-Collector")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "feedback.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.allowedorigins", []string{"http://localhost:3000", "http://localhost:8080"})
	viper.SetDefault("webserver.bodylimit", "1M")

	// Per-endpoint request quotas, requests per minute per client address
	viper.SetDefault("webserver.ratelimit.correction", 10)
	viper.SetDefault("webserver.ratelimit.export", 5)
	viper.SetDefault("webserver.ratelimit.stats", 30)

	viper.SetDefault("security.apikeys", []string{})

	viper.SetDefault("output.debug", false)
	viper.SetDefault("output.automigrate", true)
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "feedback.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "feedback")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "feedback")

	viper.SetDefault("taxonomy.path", "data/taxonomy.json")
}
