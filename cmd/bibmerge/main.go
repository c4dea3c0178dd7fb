// Package main provides the bibmerge CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibmerge",
	Short: "BibTeX bibliography merge and duplicate detection",
	Long: `bibmerge grows a BibTeX bibliography file by merging in newly
fetched records while detecting entries that are already catalogued.

Duplicates are found across four dimensions (citation key, DOI, fuzzy
title, fuzzy authors + year) and resolved with a caller-chosen policy.
All commands output JSON by default for easy integration with editors,
AI agents, and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
