package policylog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"c4policy/game"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTrimsTrailingFieldAndTruncatedLine(t *testing.T) {
	// 65 good lines with trailing commas, then a line the writer died in
	// the middle of.
	content := strings.Repeat("1,0,0,0,0,0,0,\n", 65) + "0.5,0.2,0"

	entries, err := Read(writeLog(t, content))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 65 {
		t.Fatalf("read %d entries, want 65", len(entries))
	}

	want := game.Policy{1, 0, 0, 0, 0, 0, 0}
	for i, e := range entries {
		if e.Policy != want {
			t.Fatalf("entry %d: policy %v, want %v", i, e.Policy, want)
		}
		if e.Line != i+1 {
			t.Errorf("entry %d: line %d, want %d", i, e.Line, i+1)
		}
	}
}

func TestReadKeepsCleanFinalLine(t *testing.T) {
	content := "1,0,0,0,0,0,0,\n0,0,0,1,0,0,0,"

	entries, err := Read(writeLog(t, content))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("read %d entries, want 2", len(entries))
	}
	if entries[1].Policy.Argmax() != 3 {
		t.Errorf("final entry argmax = %d, want 3", entries[1].Policy.Argmax())
	}
}

func TestReadRejectsShortMidFileLine(t *testing.T) {
	content := "1,0,0,0,0,0,0,\n1,0,0,\n1,0,0,0,0,0,0,\n"

	_, err := Read(writeLog(t, content))
	if err == nil {
		t.Fatal("Read accepted a 3-value line mid-file")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error does not name line 2: %v", err)
	}
}

func TestReadRejectsLongLine(t *testing.T) {
	content := "1,0,0,0,0,0,0,0,\n1,0,0,0,0,0,0,\n"

	_, err := Read(writeLog(t, content))
	if err == nil {
		t.Fatal("Read accepted an 8-value line")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error does not name line 1: %v", err)
	}
}

func TestReadWithoutTrailingComma(t *testing.T) {
	// Lines with exactly 7 fields and no trailing comma are also fine.
	content := "0.1,0.2,0.3,0.1,0.1,0.1,0.1\n"

	entries, err := Read(writeLog(t, content))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("read %d entries, want 1", len(entries))
	}
	if entries[0].Policy.Argmax() != 2 {
		t.Errorf("argmax = %d, want 2", entries[0].Policy.Argmax())
	}
}

func TestReadEmptyOrUnusableLog(t *testing.T) {
	if _, err := Read(writeLog(t, "")); err == nil {
		t.Error("Read accepted an empty file")
	}
	if _, err := Read(writeLog(t, "1,0,0")); err == nil {
		t.Error("Read accepted a log with only a truncated line")
	}
}
