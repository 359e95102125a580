package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"c4policy/game"
)

// SampleRow is the parquet interchange schema for one training sample.
//
// X is the flat (6,7,2) tensor as little-endian float32 bytes, with the
// shape spelled out in scalar columns so downstream readers do not have to
// know the board dimensions. The policy is stored as scalar columns
// (p0..p6) rather than LIST<FLOAT> for better cross-library compatibility.
type SampleRow struct {
	Index int32 `parquet:"index"`

	X  []byte `parquet:"x"`
	XR int32  `parquet:"x_r"`
	XC int32  `parquet:"x_c"`
	XP int32  `parquet:"x_p"`

	PolicyP0 float32 `parquet:"policy_p0"`
	PolicyP1 float32 `parquet:"policy_p1"`
	PolicyP2 float32 `parquet:"policy_p2"`
	PolicyP3 float32 `parquet:"policy_p3"`
	PolicyP4 float32 `parquet:"policy_p4"`
	PolicyP5 float32 `parquet:"policy_p5"`
	PolicyP6 float32 `parquet:"policy_p6"`

	Source string `parquet:"source,dict"`
}

const xBytes = game.FlatLen * 4

// WriteParquet writes the samples as a zstd-compressed parquet file.
// The write goes to a temp file and renames into place, so a crash never
// leaves a truncated shard at the final path.
func WriteParquet(outPath string, samples []Sample, source string) error {
	if len(samples) == 0 {
		return fmt.Errorf("refusing to write empty dataset to %s", outPath)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	rows := make([]SampleRow, 0, len(samples))
	for i, s := range samples {
		rows = append(rows, SampleRow{
			Index:    int32(i),
			X:        encodeFloats(s.Board.Flat()),
			XR:       game.Rows,
			XC:       game.Cols,
			XP:       game.Planes,
			PolicyP0: s.Policy[0],
			PolicyP1: s.Policy[1],
			PolicyP2: s.Policy[2],
			PolicyP3: s.Policy[3],
			PolicyP4: s.Policy[4],
			PolicyP5: s.Policy[5],
			PolicyP6: s.Policy[6],
			Source:   source,
		})
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("x"),
		parquet.KeyValueMetadata("schema", "c4_sample_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadParquet loads a shard written by WriteParquet, in file order.
func ReadParquet(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[SampleRow](f)
	defer reader.Close()

	samples := make([]Sample, 0, 4096)
	buf := make([]SampleRow, 256)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			s, convErr := rowToSample(buf[i])
			if convErr != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, buf[i].Index, convErr)
			}
			samples = append(samples, s)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("parquet shard %s contains no samples", path)
	}
	return samples, nil
}

func rowToSample(row SampleRow) (Sample, error) {
	if row.XR != game.Rows || row.XC != game.Cols || row.XP != game.Planes {
		return Sample{}, fmt.Errorf("tensor shape (%d,%d,%d) does not match (%d,%d,%d)",
			row.XR, row.XC, row.XP, game.Rows, game.Cols, game.Planes)
	}
	if len(row.X) != xBytes {
		return Sample{}, fmt.Errorf("tensor blob has %d bytes, want %d", len(row.X), xBytes)
	}

	board, err := game.BoardFromFlat(decodeFloats(row.X))
	if err != nil {
		return Sample{}, err
	}
	policy := game.Policy{
		row.PolicyP0, row.PolicyP1, row.PolicyP2, row.PolicyP3,
		row.PolicyP4, row.PolicyP5, row.PolicyP6,
	}
	return Sample{Board: board, Policy: policy}, nil
}

func encodeFloats(vals []float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeFloats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
