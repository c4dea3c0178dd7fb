// Package dedup detects duplicate bibliography entries and applies merge
// resolution policies.
package dedup

import (
	"fmt"
	"math"

	"github.com/matsen/bibmerge/internal/bibtex"
)

// MatchKind identifies the dimension that triggered a match.
type MatchKind string

const (
	MatchKey        MatchKind = "key"         // Exact citation key equality
	MatchDOI        MatchKind = "doi"         // Exact DOI equality (normalized)
	MatchTitle      MatchKind = "title"       // Fuzzy title similarity
	MatchAuthorYear MatchKind = "author-year" // Fuzzy authors + same year
)

// Similarity thresholds for the fuzzy dimensions.
const (
	TitleThreshold      = 0.85
	AuthorYearThreshold = 0.80
)

// Match is a candidate duplicate pairing between an incoming and an
// existing record. Exactly one dimension is reported per pair, the first
// satisfied in priority order key > doi > title > author-year.
type Match struct {
	Incoming *bibtex.Record
	Existing *bibtex.Record
	Kind     MatchKind
	Score    float64 // 1.0 for exact dimensions, computed ratio otherwise
}

// Reason returns a human-readable explanation for display and logging.
func (m Match) Reason() string {
	switch m.Kind {
	case MatchKey:
		return "Same citation key"
	case MatchDOI:
		return "Same DOI"
	case MatchTitle:
		return fmt.Sprintf("Similar title (%d%% match)", percent(m.Score))
	case MatchAuthorYear:
		return fmt.Sprintf("Similar authors, same year (%d%% match)", percent(m.Score))
	default:
		return string(m.Kind)
	}
}

func percent(score float64) int {
	return int(math.Round(score * 100))
}

// Resolution is the caller-supplied policy for handling detected matches.
// It applies uniformly to all matches in a run.
type Resolution string

const (
	ResolutionSkip     Resolution = "skip"      // Drop matched incoming records
	ResolutionReplace  Resolution = "replace"   // Drop matched existing records
	ResolutionKeepBoth Resolution = "keep-both" // Keep everything
	ResolutionCancel   Resolution = "cancel"    // Write nothing
)

// ParseResolution validates a resolution string from the caller.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case ResolutionSkip, ResolutionReplace, ResolutionKeepBoth, ResolutionCancel:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("invalid resolution: %q (valid: skip, replace, keep-both, cancel)", s)
}
