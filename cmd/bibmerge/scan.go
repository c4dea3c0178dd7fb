package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/dedup"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Scan a bibliography for internal duplicates",
	Long: `Scan a bibliography for internal duplicates.

Runs the pairwise duplicate comparison within a single file, without a
"new vs existing" framing. Defaults to the configured library_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

// ScanResult is the response for the scan command.
type ScanResult struct {
	File       string       `json:"file"`
	Records    int          `json:"records"`
	Duplicates []PairReport `json:"duplicates"`
}

// PairReport is one internal duplicate pair. Unlike a merge match there is
// no incoming/existing distinction, just two entries in the same file.
type PairReport struct {
	KeyA   string  `json:"key_a"`
	KeyB   string  `json:"key_b"`
	Kind   string  `json:"kind"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func buildPairReports(matches []dedup.Match) []PairReport {
	reports := make([]PairReport, len(matches))
	for i, m := range matches {
		reports[i] = PairReport{
			KeyA:   m.Incoming.Key,
			KeyB:   m.Existing.Key,
			Kind:   string(m.Kind),
			Score:  m.Score,
			Reason: m.Reason(),
		}
	}
	return reports
}

func runScan(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	path = resolveTarget(path)

	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}

	records := bibtex.Parse(string(data))
	matches := dedup.ScanSet(records)

	result := ScanResult{
		File:       path,
		Records:    len(records),
		Duplicates: buildPairReports(matches),
	}

	if humanOutput {
		fmt.Printf("Scanned %d record(s) in %s\n", result.Records, result.File)
		if len(result.Duplicates) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}
		fmt.Printf("Found %d possible duplicate pair(s):\n\n", len(result.Duplicates))
		for i, r := range result.Duplicates {
			fmt.Printf("%d. %s ~ %s\n", i+1, r.KeyA, r.KeyB)
			fmt.Printf("   %s\n", r.Reason)
		}
		return nil
	}

	return outputJSON(result)
}
