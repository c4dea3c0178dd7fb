package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/dedup"
	"github.com/spf13/cobra"
)

var (
	mergeInto       string
	mergeResolution string
	mergeDryRun     bool
)

func init() {
	mergeCmd.Flags().StringVar(&mergeInto, "into", "", "Target bibliography file (default: configured library_path)")
	mergeCmd.Flags().StringVar(&mergeResolution, "resolution", "", "Duplicate resolution: skip, replace, keep-both, cancel")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report what would happen without writing")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <incoming.bib>",
	Short: "Merge new records into the bibliography",
	Long: `Merge new records into the bibliography, detecting duplicates.

Usage:
  bibmerge merge new.bib --into library.bib
  bibmerge merge new.bib --into library.bib --resolution skip

Without --resolution the command only reports detected duplicates and
writes nothing. With no duplicates detected, all incoming records are
appended.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

// MergeResult is the response for the merge and fetch commands.
type MergeResult struct {
	Status  string        `json:"status"` // merged, duplicates_found, all_duplicates, no_records, canceled
	Target  string        `json:"target"`
	Added   int           `json:"added"`
	Removed int           `json:"removed,omitempty"`
	DryRun  bool          `json:"dry_run,omitempty"`
	Matches []MatchReport `json:"matches,omitempty"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	target := resolveTarget(mergeInto)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading incoming file: %v", err)
	}

	mergeText(target, string(data), mergeResolution, mergeDryRun)
	return nil
}

// mergeText runs the full merge workflow against a target bibliography
// while holding its lock. The lock covers the read as well as the write:
// a concurrent merge that only serialized the write could still compute
// its result from stale text and silently drop the other merge's records.
// Shared by the merge and fetch commands.
func mergeText(target, incomingText, resolution string, dryRun bool) {
	release, err := acquireLock(target)
	if err != nil {
		exitWithError(ExitLocked, "another merge is in progress for %s: %v", target, err)
	}

	result, err := mergeLocked(target, incomingText, resolution, dryRun)
	release()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	reportMerge(result)
}

// mergeLocked performs one merge: parse both sides, detect duplicates,
// apply the resolution, write back. The caller holds the target lock.
func mergeLocked(target, incomingText, resolution string, dryRun bool) (MergeResult, error) {
	existingText, err := bibtex.ReadFile(target)
	if err != nil {
		return MergeResult{}, fmt.Errorf("reading %s: %w", target, err)
	}

	incoming := bibtex.Parse(incomingText)
	if len(incoming) == 0 {
		// Empty or non-BibTeX input: nothing to do, not an error.
		return MergeResult{Status: "no_records", Target: target, DryRun: dryRun}, nil
	}
	existing := bibtex.Parse(existingText)

	matches := dedup.Detect(incoming, existing)
	reports := buildMatchReports(matches)

	if len(matches) == 0 {
		// Default behavior: straight append of all incoming records.
		result := MergeResult{Status: "merged", Target: target, Added: len(incoming), DryRun: dryRun}
		if !dryRun {
			merged := bibtex.Join(existingText, bibtex.Serialize(incoming))
			if err := bibtex.WriteFile(target, merged); err != nil {
				return MergeResult{}, fmt.Errorf("writing %s: %w", target, err)
			}
		}
		return result, nil
	}

	if resolution == "" {
		// Duplicates found but no decision supplied: report only.
		return MergeResult{Status: "duplicates_found", Target: target, Matches: reports, DryRun: dryRun}, nil
	}

	decision, err := dedup.ParseResolution(resolution)
	if err != nil {
		return MergeResult{}, err
	}

	applied, err := dedup.Apply(incomingText, existingText, matches, decision)
	if err != nil {
		return MergeResult{}, fmt.Errorf("applying resolution: %w", err)
	}

	switch {
	case applied.Canceled:
		return MergeResult{Status: "canceled", Target: target, Matches: reports}, nil
	case applied.NothingToAdd:
		// Every incoming record was already catalogued; the file is left
		// untouched. Reported distinctly from an empty selection.
		return MergeResult{Status: "all_duplicates", Target: target, Matches: reports, DryRun: dryRun}, nil
	}

	result := MergeResult{
		Status:  "merged",
		Target:  target,
		Added:   applied.Added,
		Removed: applied.Removed,
		DryRun:  dryRun,
		Matches: reports,
	}
	if !dryRun {
		if err := bibtex.WriteFile(target, applied.Text); err != nil {
			return MergeResult{}, fmt.Errorf("writing %s: %w", target, err)
		}
	}
	return result, nil
}

// acquireLock takes an exclusive lock file next to the target.
func acquireLock(target string) (func(), error) {
	lockPath := target + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	f.Close()
	return func() { os.Remove(lockPath) }, nil
}

// resolveTarget picks the target bibliography from the flag or config.
func resolveTarget(flag string) string {
	if flag != "" {
		return flag
	}
	if path := config.GetLibraryPath(); path != "" {
		return path
	}
	exitWithError(ExitConfigError, "no target bibliography: pass --into or set library_path (see bibmerge config)")
	return "" // unreachable
}

func reportMerge(result MergeResult) {
	if !humanOutput {
		outputJSON(result)
		return
	}

	switch result.Status {
	case "no_records":
		fmt.Println("No records in input; nothing to do.")
	case "duplicates_found":
		fmt.Printf("Found %d possible duplicate(s) in %s:\n\n", len(result.Matches), result.Target)
		printMatchReportsHuman(result.Matches)
		fmt.Println("\nRe-run with --resolution skip|replace|keep-both|cancel to merge.")
	case "all_duplicates":
		fmt.Println("All incoming records were already catalogued; file unchanged.")
	case "canceled":
		fmt.Println("Merge canceled; file unchanged.")
	case "merged":
		verb := "Merged"
		if result.DryRun {
			verb = "Would merge"
		}
		fmt.Printf("%s %d record(s) into %s\n", verb, result.Added, result.Target)
		if result.Removed > 0 {
			fmt.Printf("  Replaced %d existing record(s)\n", result.Removed)
		}
	}
}
