package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/bibmerge/internal/dedup"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MatchReport is one detected duplicate pairing in command output.
type MatchReport struct {
	IncomingKey string  `json:"incoming_key"`
	ExistingKey string  `json:"existing_key"`
	Kind        string  `json:"kind"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// buildMatchReports converts matches to their output form.
func buildMatchReports(matches []dedup.Match) []MatchReport {
	reports := make([]MatchReport, len(matches))
	for i, m := range matches {
		reports[i] = MatchReport{
			IncomingKey: m.Incoming.Key,
			ExistingKey: m.Existing.Key,
			Kind:        string(m.Kind),
			Score:       m.Score,
			Reason:      m.Reason(),
		}
	}
	return reports
}

// printMatchReportsHuman prints detected duplicates in human-readable form.
func printMatchReportsHuman(reports []MatchReport) {
	for i, r := range reports {
		fmt.Printf("%d. %s ~ %s\n", i+1, r.IncomingKey, r.ExistingKey)
		fmt.Printf("   %s\n", r.Reason)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
