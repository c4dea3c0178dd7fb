package dedup

import (
	"testing"

	"github.com/matsen/bibmerge/internal/bibtex"
)

func rec(key string, fields map[string]string) bibtex.Record {
	if fields == nil {
		fields = map[string]string{}
	}
	return bibtex.Record{Key: key, Type: "article", Fields: fields}
}

func TestDetect_ExactKey(t *testing.T) {
	incoming := bibtex.Parse(`@article{smith2020, title={A}, year={2020}}`)
	existing := bibtex.Parse(`@article{smith2020, title={B}, year={2021}}`)

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchKey {
		t.Errorf("expected kind key, got %s", matches[0].Kind)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", matches[0].Score)
	}
}

func TestDetect_KeyWinsOverTitle(t *testing.T) {
	// Satisfies both key equality and title similarity; priority order
	// requires the key dimension to be reported.
	incoming := []bibtex.Record{rec("smith2020", map[string]string{"title": "Same Title"})}
	existing := []bibtex.Record{rec("smith2020", map[string]string{"title": "Same Title"})}

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchKey {
		t.Errorf("expected kind key, got %s", matches[0].Kind)
	}
}

func TestDetect_DOICaseInsensitive(t *testing.T) {
	incoming := []bibtex.Record{rec("a1", map[string]string{"doi": "10.1234/ABC"})}
	existing := []bibtex.Record{rec("b1", map[string]string{"doi": "https://doi.org/10.1234/abc"})}

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchDOI {
		t.Errorf("expected kind doi, got %s", matches[0].Kind)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", matches[0].Score)
	}
}

func TestDetect_EmptyDOIsNeverMatch(t *testing.T) {
	incoming := []bibtex.Record{rec("a1", map[string]string{"title": "Alpha"})}
	existing := []bibtex.Record{rec("b1", map[string]string{"title": "Omega"})}

	if matches := Detect(incoming, existing); len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestDetect_FuzzyTitle(t *testing.T) {
	incoming := []bibtex.Record{rec("a1", map[string]string{"title": "Deep Learning for NLP"})}
	existing := []bibtex.Record{rec("b1", map[string]string{"title": "Deep Learning for N.L.P."})}

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchTitle {
		t.Errorf("expected kind title, got %s", matches[0].Kind)
	}
	if matches[0].Score < TitleThreshold {
		t.Errorf("expected score above %f, got %f", TitleThreshold, matches[0].Score)
	}
}

func TestDetect_DissimilarTitlesIgnored(t *testing.T) {
	incoming := []bibtex.Record{rec("a1", map[string]string{"title": "Graph Algorithms in Practice"})}
	existing := []bibtex.Record{rec("b1", map[string]string{"title": "A Cookbook of Sourdough Baking"})}

	if matches := Detect(incoming, existing); len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestDetect_AuthorYear(t *testing.T) {
	incoming := []bibtex.Record{rec("a1", map[string]string{
		"author": "Jane Doe and John Roe",
		"year":   "2019",
	})}
	existing := []bibtex.Record{rec("b1", map[string]string{
		"author": "J. Doe, J. Roe",
		"year":   "2019",
	})}

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchAuthorYear {
		t.Errorf("expected kind author-year, got %s", matches[0].Kind)
	}
	if matches[0].Score <= AuthorYearThreshold {
		t.Errorf("expected score above %f, got %f", AuthorYearThreshold, matches[0].Score)
	}
}

func TestDetect_AuthorYear_YearIsLiteral(t *testing.T) {
	// "2020" vs "2020." differ as strings, so no match even with
	// identical authors.
	incoming := []bibtex.Record{rec("a1", map[string]string{
		"author": "Jane Doe",
		"year":   "2020",
	})}
	existing := []bibtex.Record{rec("b1", map[string]string{
		"author": "Jane Doe",
		"year":   "2020.",
	})}

	if matches := Detect(incoming, existing); len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestDetect_OneMatchPerPair(t *testing.T) {
	// Pair satisfies doi, title, and author-year; only doi is reported.
	fields := map[string]string{
		"doi":    "10.1/x",
		"title":  "Shared Title",
		"author": "Jane Doe",
		"year":   "2020",
	}
	incoming := []bibtex.Record{rec("a1", fields)}
	existing := []bibtex.Record{rec("b1", fields)}

	matches := Detect(incoming, existing)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Kind != MatchDOI {
		t.Errorf("expected kind doi, got %s", matches[0].Kind)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	incoming := bibtex.Parse(`@article{a1, title={Deep Learning for NLP}}
@article{a2, doi={10.1/x}}`)
	existing := bibtex.Parse(`@article{b1, title={Deep Learning for N.L.P.}}
@article{b2, doi={10.1/X}}`)

	first := Detect(incoming, existing)
	second := Detect(incoming, existing)

	if len(first) != len(second) {
		t.Fatalf("match counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Score != second[i].Score ||
			first[i].Incoming != second[i].Incoming || first[i].Existing != second[i].Existing {
			t.Errorf("match %d differs between runs", i)
		}
	}
}

func TestScanSet_InternalDuplicates(t *testing.T) {
	records := bibtex.Parse(`@article{a1, doi={10.1/x}, title={One}}

@article{a2, doi={10.1/X}, title={Something Else}}

@article{a3, title={Unrelated Entirely}}`)

	matches := ScanSet(records)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Incoming.Key != "a1" || matches[0].Existing.Key != "a2" {
		t.Errorf("unexpected pair: %s, %s", matches[0].Incoming.Key, matches[0].Existing.Key)
	}
	if matches[0].Kind != MatchDOI {
		t.Errorf("expected kind doi, got %s", matches[0].Kind)
	}
}

func TestMatchReason(t *testing.T) {
	m := Match{Kind: MatchTitle, Score: 0.91}
	if got := m.Reason(); got != "Similar title (91% match)" {
		t.Errorf("got %q", got)
	}

	m = Match{Kind: MatchKey, Score: 1.0}
	if got := m.Reason(); got != "Same citation key" {
		t.Errorf("got %q", got)
	}
}
