package policynet

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"c4policy/dataset"
	"c4policy/game"
)

// Metrics is one epoch's observability snapshot.
// TestLoss is NaN when there is no validation split.
type Metrics struct {
	Epoch     int
	Epochs    int
	TrainLoss float64
	TestLoss  float64
	Elapsed   time.Duration
}

// Result reports the final losses for manual inspection, mirroring the
// two evaluate calls at the end of the reference trainer.
type Result struct {
	TrainLoss float64
	TestLoss  float64
	Epochs    int
}

// Trainer owns a model being fitted.
type Trainer struct {
	Model

	cfg Config
	rng *rand.Rand
}

func NewTrainer(cfg Config) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Trainer{
		Model: Model{net: newNetwork(cfg, rng)},
		cfg:   cfg,
		rng:   rng,
	}, nil
}

// Fit runs cfg.Epochs passes over train, applying a scaled SGD update
// after every example, and evaluates test after every pass. onEpoch, if
// non-nil, is invoked once per epoch with that pass's metrics.
//
// An empty training split is an error; an empty test split is legal for
// tiny datasets, in which case validation is skipped and TestLoss is NaN.
func (t *Trainer) Fit(train, test []dataset.Sample, onEpoch func(Metrics)) (Result, error) {
	if len(train) == 0 {
		return Result{}, fmt.Errorf("training split is empty")
	}

	state := t.net.InitStepState(game.FlatLen)
	start := time.Now()

	// Gradients are applied after every backward step, the only call
	// pattern the library documents. The step size is scaled by the batch
	// size so each BatchSize-long run of examples moves the weights by one
	// full learning-rate step in aggregate.
	stepLR := t.cfg.LearningRate / float32(t.cfg.BatchSize)

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		order := t.rng.Perm(len(train))

		epochLoss := 0.0
		for _, idx := range order {
			s := train[idx]

			state.SetInput(toInput(s.Board))
			for l := 0; l < numLayers; l++ {
				t.net.StepForward(state)
			}
			out := state.GetOutput()

			ce, err := crossEntropy(out, s.Policy)
			if err != nil {
				return Result{}, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			epochLoss += ce

			grad := make([]float32, len(out))
			for j := range out {
				grad[j] = clip(out[j]-s.Policy[j], t.cfg.GradClip)
			}
			t.net.StepBackward(state, grad)
			t.net.ApplyGradients(stepLR)
		}

		m := Metrics{
			Epoch:     epoch,
			Epochs:    t.cfg.Epochs,
			TrainLoss: epochLoss / float64(len(train)),
			TestLoss:  math.NaN(),
			Elapsed:   time.Since(start),
		}
		if len(test) > 0 {
			testLoss, err := t.Loss(test)
			if err != nil {
				return Result{}, fmt.Errorf("epoch %d validation: %w", epoch, err)
			}
			m.TestLoss = testLoss
		}
		if onEpoch != nil {
			onEpoch(m)
		}
	}

	// Final evaluation on both splits, the way the notebook printed its
	// two closing loss numbers.
	trainLoss, err := t.Loss(train)
	if err != nil {
		return Result{}, fmt.Errorf("final train evaluation: %w", err)
	}
	res := Result{TrainLoss: trainLoss, TestLoss: math.NaN(), Epochs: t.cfg.Epochs}
	if len(test) > 0 {
		testLoss, err := t.Loss(test)
		if err != nil {
			return Result{}, fmt.Errorf("final test evaluation: %w", err)
		}
		res.TestLoss = testLoss
	}
	return res, nil
}

func clip(v, max float32) float32 {
	if max <= 0 {
		return v
	}
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	if v != v { // NaN
		return 0
	}
	return v
}
