// Package policynet trains and serves the Connect-4 move-policy network.
//
// The network itself comes from loom's nn package; this package only wires
// the board tensors into it, runs the fit loop, and persists the result.
// Learning instability is the operator's problem to notice from the
// reported losses: there is no early stopping, checkpoint selection or
// retry anywhere.
package policynet

import "fmt"

// Config collects every knob the fit loop reads. These were inline
// constants in the original experiments; keeping them in one struct makes
// runs reproducible from flags alone.
type Config struct {
	// Epochs is the number of full passes over the training split.
	Epochs int
	// BatchSize is the number of examples that together amount to one
	// full learning-rate step: updates land per example, scaled by
	// LearningRate/BatchSize.
	BatchSize int
	// LearningRate for plain SGD, matching the reference trainer.
	LearningRate float32
	// TrainFraction of the shuffled dataset used for training; the rest is
	// the held-out validation split.
	TrainFraction float64
	// Seed drives weight init, the dataset split and per-epoch shuffles.
	Seed int64

	// Filters and Hidden size the conv and dense layers.
	Filters int
	Hidden  int
	// GradClip bounds each output-gradient component.
	GradClip float32
}

func DefaultConfig() Config {
	return Config{
		Epochs:        500,
		BatchSize:     32,
		LearningRate:  0.005,
		TrainFraction: 0.8,
		Seed:          1,
		Filters:       32,
		Hidden:        64,
		GradClip:      0.5,
	}
}

func (c Config) validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.Filters <= 0 || c.Hidden <= 0 {
		return fmt.Errorf("filters and hidden size must be positive, got %d/%d", c.Filters, c.Hidden)
	}
	return nil
}
