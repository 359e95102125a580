package game

import (
	"strings"
	"testing"
)

func TestBoardRoundTrip(t *testing.T) {
	flat := make([]float32, FlatLen)
	for i := range flat {
		flat[i] = float32(i) * 0.25
	}

	b, err := BoardFromFlat(flat)
	if err != nil {
		t.Fatalf("BoardFromFlat: %v", err)
	}

	got := b.Flat()
	if len(got) != FlatLen {
		t.Fatalf("Flat returned %d values, want %d", len(got), FlatLen)
	}
	for i := range flat {
		if got[i] != flat[i] {
			t.Fatalf("round trip mismatch at %d: got %v want %v", i, got[i], flat[i])
		}
	}
}

func TestBoardFromFlatRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 1, FlatLen - 1, FlatLen + 1, FlatLen * 2} {
		_, err := BoardFromFlat(make([]float32, n))
		if err == nil {
			t.Errorf("BoardFromFlat accepted length %d", n)
		}
	}
}

func TestIndexLayout(t *testing.T) {
	// (r, c, p) must map to r*Cols*Planes + c*Planes + p, i.e. plane is the
	// fastest-moving axis, matching the dataset column order.
	var b Board
	b.Set(0, 0, 0, 1)
	b.Set(0, 0, 1, 2)
	b.Set(0, 1, 0, 3)
	b.Set(1, 0, 0, 4)
	b.Set(5, 6, 1, 5)

	checks := []struct {
		idx  int
		want float32
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{Cols * Planes, 4},
		{FlatLen - 1, 5},
	}
	flat := b.Flat()
	for _, c := range checks {
		if flat[c.idx] != c.want {
			t.Errorf("flat[%d] = %v, want %v", c.idx, flat[c.idx], c.want)
		}
	}
}

func TestIndexPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Index(6,0,0) did not panic")
		}
	}()
	Index(Rows, 0, 0)
}

func TestPolicyFromSlice(t *testing.T) {
	p, err := PolicyFromSlice([]float32{0, 0.1, 0.5, 0.2, 0.1, 0.1, 0})
	if err != nil {
		t.Fatalf("PolicyFromSlice: %v", err)
	}
	if got := p.Argmax(); got != 2 {
		t.Errorf("Argmax = %d, want 2", got)
	}

	if _, err := PolicyFromSlice(make([]float32, 6)); err == nil {
		t.Error("PolicyFromSlice accepted 6 values")
	}
	if _, err := PolicyFromSlice(make([]float32, 8)); err == nil {
		t.Error("PolicyFromSlice accepted 8 values")
	}
}

func TestDump(t *testing.T) {
	var b Board
	b.Set(5, 3, 0, 1)
	b.Set(5, 4, 1, 1)

	out := b.Dump()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != Rows {
		t.Fatalf("dump has %d lines, want %d", len(lines), Rows)
	}
	if !strings.Contains(lines[5], "X") || !strings.Contains(lines[5], "O") {
		t.Errorf("bottom row missing pieces: %q", lines[5])
	}
}
