// Command probe runs a few hand-built boards through a trained model and
// prints the predicted policies as bar charts. It is a quick eyeball check
// on a saved artifact, not a test; the deterministic assertions live in
// the policynet package tests.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"c4policy/game"
	"c4policy/logging"
	"c4policy/policynet"
)

type probe struct {
	name  string
	board game.Board
}

func fixtures() []probe {
	var empty game.Board

	var centerOpen game.Board
	centerOpen.Set(game.Rows-1, 3, 0, 1)

	var contested game.Board
	contested.Set(game.Rows-1, 3, 0, 1)
	contested.Set(game.Rows-1, 2, 1, 1)
	contested.Set(game.Rows-2, 3, 1, 1)

	return []probe{
		{name: "empty board", board: empty},
		{name: "own piece in center column", board: centerOpen},
		{name: "contested center", board: contested},
	}
}

func main() {
	modelPath := flag.String("model", "models/c4policy.json", "Trained model artifact")
	barWidth := flag.Int("width", 40, "Bar chart width in characters")
	flag.Parse()

	slog.SetDefault(slog.New(logging.NewPrettyJSONHandler(os.Stderr, nil)))

	model, err := policynet.Load(*modelPath)
	if err != nil {
		slog.Error("loading model failed", "err", err)
		os.Exit(1)
	}

	for _, p := range fixtures() {
		policy, err := model.Predict(p.board)
		if err != nil {
			slog.Error("prediction failed", "probe", p.name, "err", err)
			os.Exit(1)
		}

		fmt.Printf("=== %s ===\n", p.name)
		fmt.Print(p.board.Dump())
		fmt.Println()
		fmt.Print(game.DumpPolicy(policy, *barWidth))
		fmt.Printf("best column: %d\n\n", policy.Argmax())
	}
}
