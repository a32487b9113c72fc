package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wownom/feedback-collector/cmd/serve"
	"github.com/wownom/feedback-collector/cmd/taxonomy"
	"github.com/wownom/feedback-collector/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "feedback-collector",
		Short: "Feedback collector for food recognition corrections",
	}

	rootCmd.PersistentFlags().BoolVar(&settings.Debug, "debug", settings.Debug, "Enable debug output")

	rootCmd.AddCommand(
		serve.Command(settings),
		taxonomy.Command(settings),
	)

	return rootCmd
}
