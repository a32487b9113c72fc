package main

import (
	"fmt"
	"os"

	"github.com/wownom/feedback-collector/cmd"
	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/logging"
)

// version and buildDate are set by the linker at build time
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
