// Package dataset loads and partitions the Connect-4 supervised dataset.
//
// The on-disk source is the CSV emitted by the self-play data generator:
// per row an optional outcome/moves prefix, 84 board-occupancy columns and
// 7 policy columns. Shape problems are reported with the offending row
// number and stop the load immediately; nothing downstream ever sees a
// partially parsed dataset.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"c4policy/game"
)

// Sample pairs one board tensor with its policy label. The pair is formed
// at load time and no dataset operation ever separates the two.
type Sample struct {
	Board  game.Board
	Policy game.Policy
}

const (
	// bareColumns is board + policy; prefixedColumns adds the generator's
	// outcome and move-count columns, which training ignores.
	bareColumns     = game.FlatLen + game.ActionSpace
	prefixedColumns = bareColumns + 2
)

// LoadCSV reads every row of the training CSV into memory.
//
// The header row ("outcome,moves,board,-,...,policy,-,...") is optional and
// detected by attempting to parse the first record; the outcome/moves
// prefix is detected from the column count. Row numbers in errors are
// 1-based file positions, header included.
func LoadCSV(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Column-count validation happens per row so the error can carry the
	// row number and the count we actually saw.
	r.FieldsPerRecord = -1

	samples := make([]Sample, 0, 4096)
	rowNum := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", rowNum+1, err)
		}
		rowNum++

		prefix, err := detectPrefix(len(record))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		vals, ok := parseFloats(record[prefix:])
		if !ok {
			if rowNum == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("row %d: non-numeric value in data row", rowNum)
		}

		board, err := game.BoardFromFlat(vals[:game.FlatLen])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		policy, err := game.PolicyFromSlice(vals[game.FlatLen:])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		samples = append(samples, Sample{Board: board, Policy: policy})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset %s contains no samples", path)
	}
	return samples, nil
}

func detectPrefix(cols int) (int, error) {
	switch cols {
	case bareColumns:
		return 0, nil
	case prefixedColumns:
		return 2, nil
	default:
		return 0, fmt.Errorf("expected %d or %d columns, got %d", bareColumns, prefixedColumns, cols)
	}
}

func parseFloats(fields []string) ([]float32, bool) {
	out := make([]float32, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, false
		}
		out[i] = float32(v)
	}
	return out, true
}
