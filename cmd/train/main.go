// Command train fits the Connect-4 policy network from a CSV dataset.
//
// It loads the dataset, shuffles and splits it by seeded index sets, fits
// for the configured number of epochs with the test split as a held-out
// validation signal, prints the two final losses, and saves the model.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"c4policy/dataset"
	"c4policy/logging"
	"c4policy/policynet"
)

func main() {
	defaults := policynet.DefaultConfig()

	csvPath := flag.String("csv", getEnvOrDefault("C4_CSV", "datasets/connect4.csv"), "Training CSV path")
	modelOut := flag.String("model-out", getEnvOrDefault("C4_MODEL", "models/c4policy.json"), "Where to write the trained model (empty to skip)")
	epochs := flag.Int("epochs", getEnvIntOrDefault("C4_EPOCHS", defaults.Epochs), "Training passes over the train split")
	batch := flag.Int("batch", getEnvIntOrDefault("C4_BATCH", defaults.BatchSize), "Examples per full learning-rate step")
	lr := flag.Float64("lr", getEnvFloatOrDefault("C4_LR", float64(defaults.LearningRate)), "SGD learning rate")
	trainFraction := flag.Float64("train-fraction", getEnvFloatOrDefault("C4_TRAIN_FRACTION", defaults.TrainFraction), "Fraction of samples used for training")
	seed := flag.Int64("seed", getEnvInt64OrDefault("C4_SEED", defaults.Seed), "Seed for weight init, shuffle and split")
	useTUI := flag.Bool("tui", false, "Show a live progress view instead of per-epoch logs")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.NewPrettyJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := defaults
	cfg.Epochs = *epochs
	cfg.BatchSize = *batch
	cfg.LearningRate = float32(*lr)
	cfg.TrainFraction = *trainFraction
	cfg.Seed = *seed

	if err := run(cfg, *csvPath, *modelOut, *useTUI); err != nil {
		slog.Error("training failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg policynet.Config, csvPath, modelOut string, useTUI bool) error {
	start := time.Now()

	samples, err := dataset.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", "path", csvPath, "samples", len(samples))

	trainIdx, testIdx, err := dataset.Split(len(samples), cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return err
	}
	train := dataset.Subset(samples, trainIdx)
	test := dataset.Subset(samples, testIdx)
	slog.Info("dataset split", "train", len(train), "test", len(test), "seed", cfg.Seed)
	if len(test) == 0 {
		slog.Warn("test split is empty; validation will be skipped")
	}

	trainer, err := policynet.NewTrainer(cfg)
	if err != nil {
		return err
	}

	var res policynet.Result
	if useTUI {
		res, err = fitWithTUI(trainer, train, test)
	} else {
		res, err = trainer.Fit(train, test, logEpoch)
	}
	if err != nil {
		return err
	}

	slog.Info("training finished",
		"epochs", res.Epochs,
		"train_loss", res.TrainLoss,
		"test_loss", lossValue(res.TestLoss),
		"elapsed", time.Since(start),
	)

	if modelOut == "" {
		slog.Warn("no model path given, trained weights discarded")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(modelOut), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := trainer.Save(modelOut); err != nil {
		return err
	}
	slog.Info("model saved", "path", modelOut)
	return nil
}

func logEpoch(m policynet.Metrics) {
	slog.Info("epoch",
		"epoch", m.Epoch,
		"of", m.Epochs,
		"train_loss", m.TrainLoss,
		"test_loss", lossValue(m.TestLoss),
		"elapsed", m.Elapsed,
	)
}

func fitWithTUI(trainer *policynet.Trainer, train, test []dataset.Sample) (policynet.Result, error) {
	updates := make(chan policynet.Metrics, 16)
	done := make(chan fitOutcome, 1)

	go func() {
		res, err := trainer.Fit(train, test, func(m policynet.Metrics) {
			updates <- m
		})
		done <- fitOutcome{res: res, err: err}
	}()

	p := tea.NewProgram(initialModel(len(train), len(test), updates, done))
	final, err := p.Run()
	if err != nil {
		return policynet.Result{}, fmt.Errorf("progress view: %w", err)
	}

	m := final.(model)
	if m.outcome == nil {
		// Operator quit before the fit loop finished. The loop has no
		// cancellation by design, so the only honest report is abort.
		return policynet.Result{}, fmt.Errorf("training aborted from progress view")
	}
	return m.outcome.res, m.outcome.err
}

// lossValue keeps NaN out of the JSON logs (it is not representable).
func lossValue(v float64) any {
	if math.IsNaN(v) {
		return "n/a"
	}
	return v
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64OrDefault(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
