// Package heatmap turns policy snapshots into an animated GIF.
//
// Each snapshot embeds into the bottom row of an otherwise empty 6x7 grid
// (the rendering mirrors where the pieces would drop), the grid sequence
// is sampled at a fixed stride, and the samples are written as looping
// heatmap frames.
package heatmap

import (
	"fmt"

	"c4policy/game"
)

// Grid is a single-plane 6x7 image, row-major.
type Grid [game.CellCount]float32

func (g Grid) At(r, c int) float32 {
	return g[r*game.Cols+c]
}

// BottomRow is the row that carries the embedded policy values.
const BottomRow = game.Rows - 1

// Embed places exactly seven values into the bottom row of a zero grid.
// Values are copied verbatim, no scaling. Anything but seven values is a
// data-shape error; silently truncating or padding here would only blow
// up later at render time.
func Embed(values []float32) (Grid, error) {
	var g Grid
	if len(values) != game.ActionSpace {
		return g, fmt.Errorf("cannot embed %d values into a %d-column board row", len(values), game.Cols)
	}
	copy(g[BottomRow*game.Cols:], values)
	return g, nil
}
