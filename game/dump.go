package game

import (
	"fmt"
	"strings"
)

// Dump renders the board as ASCII for logs and probes. Row 0 prints at the
// top. X marks plane 0 (side to move), O marks plane 1, '?' a cell claimed
// by both planes (which a well-formed dataset never produces).
func (b Board) Dump() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			own := b.At(r, c, 0) != 0
			opp := b.At(r, c, 1) != 0
			switch {
			case own && opp:
				sb.WriteString("? ")
			case own:
				sb.WriteString("X ")
			case opp:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// DumpPolicy renders a policy as a horizontal bar chart, one row per
// column of the board.
func DumpPolicy(p Policy, width int) string {
	if width <= 0 {
		width = 40
	}
	max := p[0]
	for _, v := range p[1:] {
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for i, v := range p {
		bar := 0
		if max > 0 {
			bar = int(float32(width) * v / max)
		}
		fmt.Fprintf(&sb, "col %d %-*s %.3f\n", i, width, strings.Repeat("#", bar), v)
	}
	return sb.String()
}
