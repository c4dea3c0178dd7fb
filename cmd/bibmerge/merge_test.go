package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireLock_Exclusive(t *testing.T) {
	target := filepath.Join(t.TempDir(), "refs.bib")

	release, err := acquireLock(target)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	// A held lock blocks a second merge before it reads anything.
	if _, err := acquireLock(target); err == nil {
		t.Fatal("second lock acquired while the first is held")
	}

	release()
	release2, err := acquireLock(target)
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
	release2()
}

func TestMergeLocked_SequentialMergesCompose(t *testing.T) {
	// The second merge must read the text the first one wrote; no records
	// from the first run may be lost.
	target := filepath.Join(t.TempDir(), "refs.bib")

	if _, err := mergeLocked(target, "@article{a1, title={One}}", "", false); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	result, err := mergeLocked(target, "@article{a2, title={Two}}", "", false)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if result.Status != "merged" || result.Added != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	for _, key := range []string{"a1", "a2"} {
		if !strings.Contains(string(data), "@article{"+key) {
			t.Errorf("record %s lost:\n%s", key, data)
		}
	}
}

func TestMergeLocked_DryRunWritesNothing(t *testing.T) {
	target := filepath.Join(t.TempDir(), "refs.bib")

	result, err := mergeLocked(target, "@article{a1, title={One}}", "", true)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if result.Status != "merged" || !result.DryRun {
		t.Errorf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("dry run must not create the target file")
	}
}

func TestMergeLocked_ReportOnlyLeavesFileUntouched(t *testing.T) {
	target := filepath.Join(t.TempDir(), "refs.bib")
	before := "@article{a1, title={One}}\n"
	if err := os.WriteFile(target, []byte(before), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := mergeLocked(target, "@article{a1, title={One}}", "", false)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if result.Status != "duplicates_found" || len(result.Matches) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != before {
		t.Errorf("file changed without a resolution:\n%s", data)
	}
}
