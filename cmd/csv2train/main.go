// Command csv2train converts the generator's training CSV into a
// zstd-compressed parquet shard for downstream consumers that would rather
// not reparse 91-column CSV rows.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"c4policy/dataset"
	"c4policy/logging"
)

func main() {
	csvPath := flag.String("csv", "", "Input training CSV (required)")
	outPath := flag.String("out", "", "Output parquet path (required)")
	source := flag.String("source", "csv2train", "Source tag stored with every row")

	flag.Parse()

	slog.SetDefault(slog.New(logging.NewPrettyJSONHandler(os.Stderr, nil)))

	if *csvPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "-csv and -out are required")
		os.Exit(2)
	}

	absIn, _ := filepath.Abs(*csvPath)
	absOut, _ := filepath.Abs(*outPath)
	if absIn == absOut {
		fmt.Fprintln(os.Stderr, "-out must be different from -csv")
		os.Exit(2)
	}

	samples, err := dataset.LoadCSV(*csvPath)
	if err != nil {
		slog.Error("loading dataset failed", "err", err)
		os.Exit(1)
	}

	if err := dataset.WriteParquet(*outPath, samples, *source); err != nil {
		slog.Error("writing parquet failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shard written", "path", *outPath, "samples", len(samples))
}
