package main

import (
	"fmt"

	"github.com/matsen/bibmerge/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  bibmerge config                                 # Show all config
  bibmerge config library-path                    # Get specific value
  bibmerge config library-path ~/papers/refs.bib  # Set value

Keys:
  library-path    Default target bibliography file
  picker-url      Export service base URL
  picker-api-key  Export service API key`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	LibraryPath  string `json:"library_path,omitempty"`
	PickerURL    string `json:"picker_url,omitempty"`
	PickerAPIKey string `json:"picker_api_key,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("library-path:   %s\n", cfg.LibraryPath)
			fmt.Printf("picker-url:     %s\n", cfg.PickerURL)
			fmt.Printf("picker-api-key: %s\n", maskSecret(cfg.PickerAPIKey))
		} else {
			outputJSON(ConfigResponse{
				LibraryPath:  cfg.LibraryPath,
				PickerURL:    cfg.PickerURL,
				PickerAPIKey: maskSecret(cfg.PickerAPIKey),
			})
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		var value string
		switch key {
		case "library-path":
			value = cfg.LibraryPath
		case "picker-url":
			value = cfg.PickerURL
		case "picker-api-key":
			value = maskSecret(cfg.PickerAPIKey)
		default:
			exitWithError(ExitError, "unknown config key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	switch key {
	case "library-path":
		cfg.LibraryPath = config.ExpandTilde(value)
	case "picker-url":
		cfg.PickerURL = value
	case "picker-api-key":
		cfg.PickerAPIKey = value
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// maskSecret hides all but the last 4 characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
