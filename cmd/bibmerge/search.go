package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/storage"
	"github.com/spf13/cobra"
)

var searchFile string

func init() {
	searchCmd.Flags().StringVar(&searchFile, "file", "", "Bibliography file whose index to search (default: configured library_path)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the bibliography index by title or author",
	Long: `Search the bibliography index by title or author.

Requires a current index; run bibmerge index after changing the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResult is the response for the search command.
type SearchResult struct {
	Query   string          `json:"query"`
	Results []storage.Entry `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	path := resolveTarget(searchFile)

	indexPath := config.IndexPath(path)
	if _, err := os.Stat(indexPath); err != nil {
		exitWithError(ExitConfigError, "no index for %s: run bibmerge index first", path)
	}

	db, err := storage.OpenDB(indexPath)
	if err != nil {
		exitWithError(ExitDataError, "opening index: %v", err)
	}
	defer db.Close()

	entries, err := db.Search(args[0])
	if err != nil {
		exitWithError(ExitDataError, "searching index: %v", err)
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s (%s)\n", e.Key, truncateString(e.Title, 70), e.Year)
		}
		return nil
	}
	return outputJSON(SearchResult{Query: args[0], Results: entries})
}
