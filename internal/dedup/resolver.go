package dedup

import (
	"fmt"

	"github.com/matsen/bibmerge/internal/bibtex"
)

// ApplyResult describes the outcome of applying a resolution policy.
type ApplyResult struct {
	Text         string // Merged bibliography text (empty when canceled)
	Added        int    // Incoming records appended
	Removed      int    // Existing records removed (replace only)
	Canceled     bool   // Decision was cancel; caller must not write
	NothingToAdd bool   // Filtering left zero incoming records to append
}

// Apply produces the merged bibliography text for the given resolution.
// It is invoked when at least one match exists; absent matches the caller
// appends all incoming records directly.
//
// Records never mutate: every policy selects subsets of the parsed records
// and re-serializes survivors from their original text, so untouched
// entries round-trip byte-for-byte.
func Apply(incomingText, existingText string, matches []Match, decision Resolution) (ApplyResult, error) {
	incoming := bibtex.Parse(incomingText)
	existing := bibtex.Parse(existingText)

	switch decision {
	case ResolutionSkip:
		survivors := withoutKeys(incoming, matchedIncomingKeys(matches))
		if len(survivors) == 0 {
			// Everything selected was already catalogued; existing text is
			// left untouched. Callers report this distinctly from an empty
			// selection.
			return ApplyResult{Text: existingText, NothingToAdd: true}, nil
		}
		return ApplyResult{
			Text:  bibtex.Join(existingText, bibtex.Serialize(survivors)),
			Added: len(survivors),
		}, nil

	case ResolutionReplace:
		// Matched existing entries are dropped and the full incoming set is
		// appended, so new versions supersede old ones under matched keys.
		// Incoming records are not deduplicated against each other.
		kept := withoutKeys(existing, matchedExistingKeys(matches))
		return ApplyResult{
			Text:    bibtex.Join(bibtex.Serialize(kept), bibtex.Serialize(incoming)),
			Added:   len(incoming),
			Removed: len(existing) - len(kept),
		}, nil

	case ResolutionKeepBoth:
		return ApplyResult{
			Text:  bibtex.Join(existingText, incomingText),
			Added: len(incoming),
		}, nil

	case ResolutionCancel:
		return ApplyResult{Canceled: true}, nil
	}

	return ApplyResult{}, fmt.Errorf("unknown resolution: %q", decision)
}

// matchedIncomingKeys collects the keys of incoming records involved in
// any match.
func matchedIncomingKeys(matches []Match) map[string]bool {
	keys := make(map[string]bool, len(matches))
	for _, m := range matches {
		keys[m.Incoming.Key] = true
	}
	return keys
}

// matchedExistingKeys collects the keys of existing records involved in
// any match.
func matchedExistingKeys(matches []Match) map[string]bool {
	keys := make(map[string]bool, len(matches))
	for _, m := range matches {
		keys[m.Existing.Key] = true
	}
	return keys
}

// withoutKeys returns the records whose key is not in the drop set.
func withoutKeys(records []bibtex.Record, drop map[string]bool) []bibtex.Record {
	var kept []bibtex.Record
	for _, r := range records {
		if !drop[r.Key] {
			kept = append(kept, r)
		}
	}
	return kept
}
