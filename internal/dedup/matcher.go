package dedup

import (
	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/similarity"
)

// scorer evaluates one match dimension for a record pair. It returns the
// score and whether the dimension is satisfied.
type scorer func(in, ex *bibtex.Record) (float64, bool)

// dimensions lists the match dimensions in strict priority order. The
// first satisfied dimension wins and the rest are not evaluated.
var dimensions = []struct {
	kind MatchKind
	fn   scorer
}{
	{MatchKey, matchKey},
	{MatchDOI, matchDOI},
	{MatchTitle, matchTitle},
	{MatchAuthorYear, matchAuthorYear},
}

// Detect compares every incoming record against every existing record and
// returns at most one match per pair. Quadratic by design; bibliography
// files hold hundreds of entries, not millions.
func Detect(incoming, existing []bibtex.Record) []Match {
	var matches []Match
	for i := range incoming {
		for j := range existing {
			if m, ok := matchPair(&incoming[i], &existing[j]); ok {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

// ScanSet runs the pairwise comparison within a single record set,
// surfacing internal duplicates. Each unordered pair is checked once.
func ScanSet(records []bibtex.Record) []Match {
	var matches []Match
	for i := range records {
		for j := i + 1; j < len(records); j++ {
			if m, ok := matchPair(&records[i], &records[j]); ok {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

func matchPair(in, ex *bibtex.Record) (Match, bool) {
	for _, dim := range dimensions {
		if score, ok := dim.fn(in, ex); ok {
			return Match{Incoming: in, Existing: ex, Kind: dim.kind, Score: score}, true
		}
	}
	return Match{}, false
}

func matchKey(in, ex *bibtex.Record) (float64, bool) {
	if in.Key != "" && in.Key == ex.Key {
		return 1.0, true
	}
	return 0, false
}

func matchDOI(in, ex *bibtex.Record) (float64, bool) {
	a := similarity.NormalizeDOI(in.DOI())
	b := similarity.NormalizeDOI(ex.DOI())
	if a != "" && a == b {
		return 1.0, true
	}
	return 0, false
}

func matchTitle(in, ex *bibtex.Record) (float64, bool) {
	a := similarity.NormalizeTitle(in.Title())
	b := similarity.NormalizeTitle(ex.Title())
	if a == "" || b == "" {
		return 0, false
	}
	if score := similarity.Ratio(a, b); score > TitleThreshold {
		return score, true
	}
	return 0, false
}

func matchAuthorYear(in, ex *bibtex.Record) (float64, bool) {
	a := similarity.NormalizeAuthors(in.Author())
	b := similarity.NormalizeAuthors(ex.Author())
	if a == "" || b == "" {
		return 0, false
	}
	// Year comparison is deliberately literal string equality: "2020" and
	// "2020." are different years for matching purposes.
	if in.Year() != ex.Year() {
		return 0, false
	}
	if score := similarity.Ratio(a, b); score > AuthorYearThreshold {
		return score, true
	}
	return 0, false
}
