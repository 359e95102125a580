package policynet

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/openfluke/loom/nn"

	"c4policy/dataset"
	"c4policy/game"
)

const (
	numLayers = 3
	modelName = "c4policy"
	modelType = "float32"
)

// Model wraps a loom network mapping a flat (6,7,2) board to a 7-column
// policy. The raw head is sigmoid-activated; Predict and Loss normalize it
// into a distribution.
type Model struct {
	net *nn.Network
}

// newNetwork builds Conv2D(3x3, padded) -> Dense(hidden) -> Dense(7).
// Kernel and dense weights are seeded from cfg.Seed so runs reproduce.
func newNetwork(cfg Config, rng *rand.Rand) *nn.Network {
	net := nn.NewNetwork(game.FlatLen, 1, 1, numLayers)
	net.BatchSize = 1

	conv := nn.LayerConfig{
		Type:        nn.LayerConv2D,
		InputHeight: game.Rows, InputWidth: game.Cols, InputChannels: game.Planes,
		Filters: cfg.Filters, KernelSize: 3, Stride: 1, Padding: 1,
		OutputHeight: game.Rows, OutputWidth: game.Cols,
		Activation: nn.ActivationLeakyReLU,
	}
	conv.Kernel = make([]float32, cfg.Filters*game.Planes*3*3)
	conv.Bias = make([]float32, cfg.Filters)
	initRandom(rng, conv.Kernel, 0.2)
	net.SetLayer(0, 0, 0, conv)

	convOut := cfg.Filters * game.Rows * game.Cols
	net.SetLayer(0, 0, 1, nn.InitDenseLayer(convOut, cfg.Hidden, nn.ActivationLeakyReLU))
	net.SetLayer(0, 0, 2, nn.InitDenseLayer(cfg.Hidden, game.ActionSpace, nn.ActivationSigmoid))
	return net
}

func initRandom(rng *rand.Rand, s []float32, scale float32) {
	for i := range s {
		s[i] = (rng.Float32()*2 - 1) * scale
	}
}

// toInput re-lays the board out as a planar (C,H,W) tensor, the layout
// the conv layer consumes. The dataset keeps planes interleaved per cell;
// the network wants one full plane after the other.
func toInput(b game.Board) []float32 {
	in := make([]float32, game.FlatLen)
	for p := 0; p < game.Planes; p++ {
		for r := 0; r < game.Rows; r++ {
			for c := 0; c < game.Cols; c++ {
				in[p*game.CellCount+r*game.Cols+c] = b.At(r, c, p)
			}
		}
	}
	return in
}

// Predict runs one board through the network and returns the normalized
// policy distribution.
func (m *Model) Predict(b game.Board) (game.Policy, error) {
	out, _ := m.net.ForwardCPU(toInput(b))
	norm, err := normalize(out)
	if err != nil {
		return game.Policy{}, err
	}
	return game.PolicyFromSlice(norm)
}

// Loss is the mean categorical cross-entropy over the given samples.
// An empty set is a degenerate-input error: returning NaN here would just
// surface as a confusing artifact later.
func (m *Model) Loss(samples []dataset.Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("cannot evaluate loss on an empty sample set")
	}

	total := 0.0
	for i, s := range samples {
		out, _ := m.net.ForwardCPU(toInput(s.Board))
		ce, err := crossEntropy(out, s.Policy)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		total += ce
	}
	return total / float64(len(samples)), nil
}

// Save writes the model artifact, overwriting any existing file at path.
func (m *Model) Save(path string) error {
	data, err := m.net.SaveModelWithDType(modelName, modelType)
	if err != nil {
		return fmt.Errorf("serialize model: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	net, _, err := nn.LoadModelWithDType(string(data), modelName, modelType)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Model{net: net}, nil
}

// normalize turns the raw sigmoid head into a distribution over columns.
func normalize(out []float32) ([]float32, error) {
	if len(out) != game.ActionSpace {
		return nil, fmt.Errorf("network produced %d outputs, want %d", len(out), game.ActionSpace)
	}
	var sum float32
	for _, v := range out {
		if v < 0 {
			v = 0
		}
		sum += v
	}
	norm := make([]float32, len(out))
	if sum <= 0 {
		for i := range norm {
			norm[i] = 1.0 / float32(len(norm))
		}
		return norm, nil
	}
	for i, v := range out {
		if v < 0 {
			v = 0
		}
		norm[i] = v / sum
	}
	return norm, nil
}

const lossEpsilon = 1e-9

func crossEntropy(out []float32, target game.Policy) (float64, error) {
	norm, err := normalize(out)
	if err != nil {
		return 0, err
	}
	ce := 0.0
	for i, p := range norm {
		t := float64(target[i])
		if t == 0 {
			continue
		}
		ce -= t * math.Log(float64(p)+lossEpsilon)
	}
	if math.IsNaN(ce) || math.IsInf(ce, 0) {
		return 0, fmt.Errorf("non-finite loss")
	}
	return ce, nil
}
