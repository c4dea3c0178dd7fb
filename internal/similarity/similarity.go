// Package similarity provides normalized string similarity for
// bibliographic fields.
package similarity

import (
	"strings"
	"unicode"
)

// Ratio returns a similarity score in [0,1] based on Levenshtein edit
// distance: 1 - dist(a,b)/max(len(a),len(b)), measured in runes.
//
// Equal strings score 1.0. If exactly one string is empty the score is 0.0
// by definition, without computing the distance. Ratio is symmetric.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := max(len(ra), len(rb))
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes the edit distance with unit costs for insertion,
// deletion, and substitution, using a single-row DP table.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// NormalizeTitle canonicalizes a title for fuzzy comparison: lowercase,
// LaTeX escape characters and punctuation stripped, whitespace runs
// collapsed to a single space, trimmed.
func NormalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Everything else (braces, backslashes, punctuation) is dropped,
		// so "N.L.P." and "NLP" normalize identically.
	}
	return collapseSpaces(b.String())
}

// NormalizeAuthors canonicalizes an author list for fuzzy comparison.
//
// The BibTeX "and" conjunction is collapsed into a plain separator first,
// so "A and B" and "A, B" split into the same name list. Each name is then
// normalized like a title, and given names are reduced to initials so that
// "Jane Doe" and "J. Doe" compare equal. The result is the flattened token
// stream of all names joined by single spaces.
func NormalizeAuthors(s string) string {
	// Whitespace collapses first so a line wrap inside the field cannot
	// hide the conjunction ("Doe and\nRoe").
	lowered := collapseSpaces(strings.ToLower(s))
	lowered = strings.ReplaceAll(lowered, " and ", ",")

	var names []string
	for _, part := range strings.Split(lowered, ",") {
		name := NormalizeTitle(part)
		if name == "" {
			continue
		}
		tokens := strings.Fields(name)
		// All but the family name shrink to initials.
		for i := 0; i < len(tokens)-1; i++ {
			tokens[i] = string([]rune(tokens[i])[:1])
		}
		names = append(names, strings.Join(tokens, " "))
	}
	return strings.Join(names, " ")
}

// NormalizeDOI normalizes a DOI for exact comparison. Removes common URL
// and label prefixes and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
