package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/picker"
	"github.com/spf13/cobra"
)

var (
	fetchInto       string
	fetchResolution string
	fetchDryRun     bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchInto, "into", "", "Target bibliography file (default: configured library_path)")
	fetchCmd.Flags().StringVar(&fetchResolution, "resolution", "", "Duplicate resolution: skip, replace, keep-both, cancel")
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "Report what would happen without writing")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <key>...",
	Short: "Fetch records from the export service and merge them",
	Long: `Fetch records from the export service and merge them.

Asks the configured picker/export service for raw BibTeX for the given
selection keys, then runs the same workflow as bibmerge merge. The
service URL comes from picker_url in the config; credentials come from
picker_api_key or the BIBMERGE_PICKER_API_KEY environment variable
(a .env file is honored).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	godotenv.Load() // Best-effort; absence of .env is fine.

	target := resolveTarget(fetchInto)

	baseURL := config.GetPickerURL()
	if baseURL == "" {
		exitWithError(ExitConfigError, "picker_url not configured (see bibmerge config)")
	}

	var opts []picker.ClientOption
	if key := config.GetPickerAPIKey(); key != "" {
		opts = append(opts, picker.WithAPIKey(key))
	}
	client := picker.NewClient(baseURL, opts...)

	incomingText, err := client.Export(context.Background(), args)
	if err != nil {
		exitWithError(ExitError, "fetching records: %v", err)
	}

	mergeText(target, incomingText, fetchResolution, fetchDryRun)
	return nil
}
