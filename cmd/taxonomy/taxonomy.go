// Package taxonomy implements the taxonomy import command.
package taxonomy

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/taxonomy"
)

// Command creates the taxonomy command for importing dish reference data.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Import the dish taxonomy into the database",
		Long:  "Load the dish taxonomy JSON document into the reference table. The import is skipped if the table already holds data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(settings)
		},
	}

	cmd.Flags().StringVar(&settings.Taxonomy.Path, "file", viper.GetString("taxonomy.path"), "Path to the taxonomy JSON document")

	return cmd
}

func runImport(settings *conf.Settings) error {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer ds.Close() //nolint:errcheck // one-shot command, nothing to do about a close error

	result, err := taxonomy.Load(ds, settings.Taxonomy.Path)
	if err != nil {
		return fmt.Errorf("taxonomy import failed: %w", err)
	}

	if result.Skipped {
		fmt.Printf("taxonomy import skipped: %s\n", result.Reason)
		return nil
	}
	fmt.Printf("imported %d dishes into the taxonomy\n", result.Loaded)
	return nil
}
