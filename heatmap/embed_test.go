package heatmap

import (
	"testing"

	"c4policy/game"
)

func TestEmbedBottomRow(t *testing.T) {
	values := []float32{0.1, 0.2, 0.3, 0.4, 0.3, 0.2, 0.1}

	g, err := Embed(values)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Cols; c++ {
			got := g.At(r, c)
			if r == BottomRow {
				if got != values[c] {
					t.Errorf("bottom row col %d = %v, want %v", c, got, values[c])
				}
			} else if got != 0 {
				t.Errorf("cell (%d,%d) = %v, want 0", r, c, got)
			}
		}
	}
}

func TestEmbedRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 6, 8, 42} {
		if _, err := Embed(make([]float32, n)); err == nil {
			t.Errorf("Embed accepted %d values", n)
		}
	}
}
