package heatmap

import (
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"c4policy/game"
	"c4policy/policylog"
)

func makeEntries(n int) []policylog.Entry {
	entries := make([]policylog.Entry, n)
	for i := range entries {
		entries[i].Line = i + 1
		entries[i].Policy[i%game.ActionSpace] = 1
	}
	return entries
}

func renderConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CellSize = 4
	cfg.OutPath = filepath.Join(t.TempDir(), "out.gif")
	return cfg
}

func TestRenderFrameCounts(t *testing.T) {
	cases := []struct {
		entries int
		frames  int
	}{
		{64, 1},
		{65, 1},
		{128, 2},
		{1000, 15},
	}
	for _, tc := range cases {
		cfg := renderConfig(t)
		got, err := Render(makeEntries(tc.entries), cfg)
		if err != nil {
			t.Fatalf("Render(%d entries): %v", tc.entries, err)
		}
		if got != tc.frames {
			t.Errorf("%d entries: %d frames, want %d", tc.entries, got, tc.frames)
		}

		f, err := os.Open(cfg.OutPath)
		if err != nil {
			t.Fatalf("open rendered gif: %v", err)
		}
		decoded, err := gif.DecodeAll(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode rendered gif: %v", err)
		}
		if len(decoded.Image) != tc.frames {
			t.Errorf("%d entries: gif holds %d frames, want %d", tc.entries, len(decoded.Image), tc.frames)
		}
	}
}

func TestRenderTooFewEntries(t *testing.T) {
	cfg := renderConfig(t)
	_, err := Render(makeEntries(63), cfg)
	if err == nil {
		t.Fatal("Render produced an artifact from 63 entries")
	}
	if !strings.Contains(err.Error(), "63") {
		t.Errorf("error does not mention the entry count: %v", err)
	}
	if _, statErr := os.Stat(cfg.OutPath); !os.IsNotExist(statErr) {
		t.Error("degenerate artifact was written")
	}
}

func TestRenderValidatesConfig(t *testing.T) {
	entries := makeEntries(64)

	cfg := renderConfig(t)
	cfg.SampleStride = 0
	if _, err := Render(entries, cfg); err == nil {
		t.Error("Render accepted zero stride")
	}

	cfg = renderConfig(t)
	cfg.OutPath = ""
	if _, err := Render(entries, cfg); err == nil {
		t.Error("Render accepted empty output path")
	}
}

// End-to-end: a log of 65 repeated snapshots plus a corrupted tail line
// renders exactly one frame, sampled from entry 0.
func TestRenderFromLogFile(t *testing.T) {
	content := strings.Repeat("1,0,0,0,0,0,0,\n", 65) + "1,0"
	logPath := filepath.Join(t.TempDir(), "policy.log")
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := policylog.Read(logPath)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 65 {
		t.Fatalf("read %d entries, want 65", len(entries))
	}

	cfg := renderConfig(t)
	frames, err := Render(entries, cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if frames != 1 {
		t.Fatalf("rendered %d frames, want 1", frames)
	}

	f, err := os.Open(cfg.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	frame := decoded.Image[0]

	// Column 0 of the bottom row carries all the weight; its cell must be
	// the hottest pixel and the top row must stay at palette index 0.
	hot := frame.ColorIndexAt(cfg.CellSize/2, BottomRow*cfg.CellSize+cfg.CellSize/2)
	cold := frame.ColorIndexAt(cfg.CellSize/2, cfg.CellSize/2)
	if hot == 0 {
		t.Error("embedded policy cell rendered cold")
	}
	if cold != 0 {
		t.Errorf("empty cell rendered with palette index %d", cold)
	}
}
