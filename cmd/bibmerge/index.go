package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/storage"
	"github.com/spf13/cobra"
)

var indexFile string

func init() {
	indexCmd.Flags().StringVar(&indexFile, "file", "", "Bibliography file to index (default: configured library_path)")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite index of the bibliography",
	Long: `Rebuild the SQLite index of the bibliography.

The .bib file is the source of truth; the index is ephemeral and fully
rebuilt from it. It backs the search and pdf commands.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status  string `json:"status"`
	File    string `json:"file"`
	Index   string `json:"index"`
	Entries int    `json:"entries"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := resolveTarget(indexFile)

	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}
	records := bibtex.Parse(string(data))

	indexPath := config.IndexPath(path)
	db, err := storage.OpenDB(indexPath)
	if err != nil {
		exitWithError(ExitDataError, "opening index: %v", err)
	}
	defer db.Close()

	if err := db.Rebuild(records); err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}

	result := IndexResult{
		Status:  "indexed",
		File:    path,
		Index:   indexPath,
		Entries: len(records),
	}

	if humanOutput {
		fmt.Printf("Indexed %d record(s) from %s\n", result.Entries, result.File)
		return nil
	}
	return outputJSON(result)
}
