package dedup

import (
	"strings"
	"testing"

	"github.com/matsen/bibmerge/internal/bibtex"
)

const existingLib = `@article{smith2020, title={A Study of Things}, year={2020}}

@article{jones2018, title={Another Work}, year={2018}}`

// incomingDup duplicates smith2020 by key and adds one new record.
const incomingDup = `@article{smith2020, title={A Study of Things, Revised}, year={2021}}

@article{doe2022, title={Something New}, year={2022}}`

func detectFixture(t *testing.T) []Match {
	t.Helper()
	matches := Detect(bibtex.Parse(incomingDup), bibtex.Parse(existingLib))
	if len(matches) != 1 {
		t.Fatalf("fixture expected 1 match, got %d", len(matches))
	}
	return matches
}

func TestApply_Skip(t *testing.T) {
	matches := detectFixture(t)

	result, err := Apply(incomingDup, existingLib, matches, ResolutionSkip)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if result.Added != 1 {
		t.Errorf("expected 1 added, got %d", result.Added)
	}
	if !strings.HasPrefix(result.Text, existingLib) {
		t.Errorf("existing text not preserved as prefix:\n%s", result.Text)
	}
	if strings.Contains(result.Text, "Revised") {
		t.Errorf("matched incoming record should have been skipped:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "@article{doe2022") {
		t.Errorf("non-matched incoming record missing:\n%s", result.Text)
	}
}

func TestApply_SkipEverythingDuplicate(t *testing.T) {
	incoming := `@article{smith2020, title={A Study of Things}, year={2020}}`
	matches := Detect(bibtex.Parse(incoming), bibtex.Parse(existingLib))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	result, err := Apply(incoming, existingLib, matches, ResolutionSkip)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !result.NothingToAdd {
		t.Error("expected NothingToAdd")
	}
	if result.Text != existingLib {
		t.Errorf("existing text must be untouched:\n%s", result.Text)
	}
}

func TestApply_SkipKeepsExistingBytesVerbatim(t *testing.T) {
	// A trailing newline in the file survives the merge untouched.
	existing := existingLib + "\n"
	matches := Detect(bibtex.Parse(incomingDup), bibtex.Parse(existing))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	result, err := Apply(incomingDup, existing, matches, ResolutionSkip)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.HasPrefix(result.Text, existing) {
		t.Errorf("existing bytes altered:\n%s", result.Text)
	}
}

func TestApply_Replace(t *testing.T) {
	matches := detectFixture(t)

	result, err := Apply(incomingDup, existingLib, matches, ResolutionReplace)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if result.Removed != 1 {
		t.Errorf("expected 1 removed, got %d", result.Removed)
	}
	if result.Added != 2 {
		t.Errorf("expected 2 added, got %d", result.Added)
	}
	if strings.Contains(result.Text, "A Study of Things}") {
		t.Errorf("old smith2020 entry should be gone:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "Revised") {
		t.Errorf("incoming smith2020 entry missing:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "@article{jones2018") {
		t.Errorf("non-matched existing record must survive:\n%s", result.Text)
	}

	// Survivors round-trip byte-for-byte.
	records := bibtex.Parse(result.Text)
	for _, r := range records {
		if r.Key == "jones2018" && r.Raw != "@article{jones2018, title={Another Work}, year={2018}}" {
			t.Errorf("survivor altered: %q", r.Raw)
		}
	}
}

func TestApply_ReplaceKeepsIncomingDuplicateKeys(t *testing.T) {
	// Two incoming records share a key; replace dedups only the existing
	// side, so both incoming copies survive.
	incoming := `@article{smith2020, title={First Copy}, year={2020}}

@article{smith2020, title={Second Copy}, year={2020}}`
	matches := Detect(bibtex.Parse(incoming), bibtex.Parse(existingLib))
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	result, err := Apply(incoming, existingLib, matches, ResolutionReplace)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !strings.Contains(result.Text, "First Copy") || !strings.Contains(result.Text, "Second Copy") {
		t.Errorf("both incoming copies must survive:\n%s", result.Text)
	}
	if result.Removed != 1 {
		t.Errorf("expected 1 removed, got %d", result.Removed)
	}
}

func TestApply_KeepBoth(t *testing.T) {
	matches := detectFixture(t)

	result, err := Apply(incomingDup, existingLib, matches, ResolutionKeepBoth)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := existingLib + "\n\n" + incomingDup
	if result.Text != want {
		t.Errorf("keep-both must concatenate as-is:\ngot:  %q\nwant: %q", result.Text, want)
	}
	if result.Added != 2 {
		t.Errorf("expected 2 added, got %d", result.Added)
	}
}

func TestApply_Cancel(t *testing.T) {
	matches := detectFixture(t)

	result, err := Apply(incomingDup, existingLib, matches, ResolutionCancel)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !result.Canceled {
		t.Error("expected Canceled")
	}
	if result.Text != "" {
		t.Errorf("cancel must produce no text, got %q", result.Text)
	}
}

func TestApply_UnknownResolution(t *testing.T) {
	if _, err := Apply("", "", nil, Resolution("merge")); err == nil {
		t.Error("expected error for unknown resolution")
	}
}

func TestParseResolution(t *testing.T) {
	for _, s := range []string{"skip", "replace", "keep-both", "cancel"} {
		if _, err := ParseResolution(s); err != nil {
			t.Errorf("ParseResolution(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseResolution("merge"); err == nil {
		t.Error("expected error for invalid resolution")
	}
}
