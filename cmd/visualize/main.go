// Command visualize renders a policy snapshot log as an animated GIF.
//
// Every stride-th snapshot becomes one heatmap frame: the 7 policy values
// sit in the bottom row of an otherwise empty board, hotter cells meaning
// more preferred columns.
package main

import (
	"flag"
	"log/slog"
	"os"

	"c4policy/heatmap"
	"c4policy/logging"
	"c4policy/policylog"
)

func main() {
	defaults := heatmap.DefaultConfig()

	logPath := flag.String("log", "", "Policy snapshot log to render (required)")
	outPath := flag.String("out", defaults.OutPath, "Output GIF path, overwritten on each run")
	stride := flag.Int("stride", defaults.SampleStride, "Sample every Nth snapshot as a frame")
	cell := flag.Int("cell", defaults.CellSize, "Pixels per board cell")

	flag.Parse()

	slog.SetDefault(slog.New(logging.NewPrettyJSONHandler(os.Stderr, nil)))

	if *logPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	entries, err := policylog.Read(*logPath)
	if err != nil {
		slog.Error("loading policy log failed", "err", err)
		os.Exit(1)
	}
	slog.Info("policy log loaded", "path", *logPath, "entries", len(entries))

	cfg := heatmap.Config{
		SampleStride: *stride,
		CellSize:     *cell,
		OutPath:      *outPath,
	}
	frames, err := heatmap.Render(entries, cfg)
	if err != nil {
		slog.Error("rendering failed", "err", err)
		os.Exit(1)
	}

	slog.Info("animation written",
		"path", cfg.OutPath,
		"frames", frames,
		"stride", cfg.SampleStride,
	)
}
