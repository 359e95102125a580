// Package game holds the Connect-4 tensor types shared by the training and
// visualization pipelines.
//
// A board is stored as a flat float32 vector in (row, col, plane) order so
// it can be handed to the network input and to storage without copying
// through intermediate shapes. The layout matches the generated dataset:
// two interleaved occupancy planes per cell, plane 0 for the side to move
// and plane 1 for the opponent.
package game

import "fmt"

const (
	Rows   = 6
	Cols   = 7
	Planes = 2

	// CellCount is the number of board cells, FlatLen the length of the
	// flat tensor (two planes per cell).
	CellCount = Rows * Cols
	FlatLen   = CellCount * Planes

	// ActionSpace is one move per column.
	ActionSpace = Cols
)

// Board is a (Rows, Cols, Planes) occupancy tensor stored flat.
// Element (r, c, p) lives at index r*Cols*Planes + c*Planes + p.
type Board [FlatLen]float32

// Index returns the flat index of element (r, c, p). It panics on
// out-of-range coordinates; callers iterate fixed shapes so a bad
// coordinate is always a programming error, not a data error.
func Index(r, c, p int) int {
	if r < 0 || r >= Rows || c < 0 || c >= Cols || p < 0 || p >= Planes {
		panic(fmt.Sprintf("board index out of range: (%d,%d,%d)", r, c, p))
	}
	return r*Cols*Planes + c*Planes + p
}

// BoardFromFlat reshapes a flat 84-value vector into a Board.
// The only validation is the length check: values pass through verbatim,
// with no range or occupancy checks. A length mismatch is a data-shape
// error and must stop the pipeline before any training starts.
func BoardFromFlat(flat []float32) (Board, error) {
	var b Board
	if len(flat) != FlatLen {
		return b, fmt.Errorf("board vector has %d values, want %d (%dx%dx%d)",
			len(flat), FlatLen, Rows, Cols, Planes)
	}
	copy(b[:], flat)
	return b, nil
}

// Flat returns a copy of the tensor in its flat layout.
// BoardFromFlat(b.Flat()) round-trips exactly.
func (b Board) Flat() []float32 {
	out := make([]float32, FlatLen)
	copy(out, b[:])
	return out
}

func (b Board) At(r, c, p int) float32 {
	return b[Index(r, c, p)]
}

func (b *Board) Set(r, c, p int, v float32) {
	b[Index(r, c, p)] = v
}
