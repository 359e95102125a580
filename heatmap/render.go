package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"

	"c4policy/game"
	"c4policy/policylog"
)

// Config holds the animation knobs that used to be inline constants.
type Config struct {
	// SampleStride picks every stride-th log entry as a frame.
	SampleStride int
	// CellSize is the rendered pixel width/height of one board cell.
	CellSize int
	// OutPath is overwritten on every run.
	OutPath string
}

func DefaultConfig() Config {
	return Config{
		SampleStride: 64,
		CellSize:     40,
		OutPath:      "policy.gif",
	}
}

// Render samples the entries at indices 0, stride, 2*stride, ... and
// writes them as a looping GIF. It returns the frame count.
//
// A log shorter than one stride yields zero frames, which is reported as
// an error instead of writing a degenerate artifact. The playback delay
// derives from the stride the same way the frame count does: sampling at
// 64 over a 1kHz snapshot stream plays back at 1000/64 fps, truncated.
func Render(entries []policylog.Entry, cfg Config) (int, error) {
	if cfg.SampleStride <= 0 {
		return 0, fmt.Errorf("sample stride must be positive, got %d", cfg.SampleStride)
	}
	if cfg.CellSize <= 0 {
		return 0, fmt.Errorf("cell size must be positive, got %d", cfg.CellSize)
	}
	if cfg.OutPath == "" {
		return 0, fmt.Errorf("output path is required")
	}

	frameCount := len(entries) / cfg.SampleStride
	if frameCount == 0 {
		return 0, fmt.Errorf("log has %d entries, need at least %d for one frame", len(entries), cfg.SampleStride)
	}

	fps := 1000 / cfg.SampleStride
	if fps < 1 {
		fps = 1
	}
	delay := 100 / fps // gif delay unit is 10ms

	pal := heatPalette()
	anim := &gif.GIF{LoopCount: 0}
	for f := 0; f < frameCount; f++ {
		entry := entries[f*cfg.SampleStride]
		grid, err := Embed(entry.Policy[:])
		if err != nil {
			return 0, fmt.Errorf("entry at log line %d: %w", entry.Line, err)
		}
		anim.Image = append(anim.Image, renderFrame(grid, cfg.CellSize, pal))
		anim.Delay = append(anim.Delay, delay)
	}

	if err := writeGIF(cfg.OutPath, anim); err != nil {
		return 0, err
	}
	return frameCount, nil
}

// renderFrame draws one grid as a paletted image, one solid block per
// cell, row 0 at the top. Colors are scaled to the frame's own maximum so
// a frame's hottest cell is always full intensity, matching how the
// snapshots were previewed originally.
func renderFrame(g Grid, cellSize int, pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, game.Cols*cellSize, game.Rows*cellSize), pal)

	var max float32
	for _, v := range g {
		if v > max {
			max = v
		}
	}

	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Cols; c++ {
			v := g.At(r, c)
			idx := uint8(0)
			if max > 0 && v > 0 {
				scaled := int(v / max * 255)
				if scaled > 255 {
					scaled = 255
				}
				idx = uint8(scaled)
			}
			fillCell(img, c*cellSize, r*cellSize, cellSize, idx)
		}
	}
	return img
}

func fillCell(img *image.Paletted, x0, y0, size int, idx uint8) {
	for y := y0; y < y0+size; y++ {
		row := img.Pix[y*img.Stride+x0 : y*img.Stride+x0+size]
		for i := range row {
			row[i] = idx
		}
	}
}

// heatPalette is a 256-entry black-red-yellow-white ramp.
func heatPalette() color.Palette {
	pal := make(color.Palette, 256)
	for i := 0; i < 256; i++ {
		r := clamp8(3 * i)
		g := clamp8(3*i - 255)
		b := clamp8(3*i - 510)
		pal[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return pal
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func writeGIF(outPath string, anim *gif.GIF) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	// Write to a temp file and rename, so an interrupted render never
	// leaves a half-written artifact at the final path.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode gif: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close gif: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename gif: %w", err)
	}
	return nil
}
