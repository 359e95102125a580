package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"c4policy/policynet"
)

type fitOutcome struct {
	res policynet.Result
	err error
}

// model is the live training progress view: epoch counter, current
// losses, throughput, and a short tail of recent epochs.
type model struct {
	trainSize int
	testSize  int

	epoch     int
	epochs    int
	trainLoss float64
	testLoss  float64
	recent    []string

	startTime time.Time
	updates   chan policynet.Metrics
	done      chan fitOutcome
	outcome   *fitOutcome
}

func initialModel(trainSize, testSize int, updates chan policynet.Metrics, done chan fitOutcome) model {
	return model{
		trainSize: trainSize,
		testSize:  testSize,
		trainLoss: math.NaN(),
		testLoss:  math.NaN(),
		startTime: time.Now(),
		updates:   updates,
		done:      done,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates chan policynet.Metrics, done chan fitOutcome) tea.Cmd {
	return func() tea.Msg {
		select {
		case m := <-updates:
			return m
		case out := <-done:
			return out
		}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates, m.done), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		return m, tickCmd()
	case policynet.Metrics:
		m.epoch = msg.Epoch
		m.epochs = msg.Epochs
		m.trainLoss = msg.TrainLoss
		m.testLoss = msg.TestLoss
		line := fmt.Sprintf("epoch %d/%d  train %.4f  test %s",
			msg.Epoch, msg.Epochs, msg.TrainLoss, fmtLoss(msg.TestLoss))
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > 10 {
			m.recent = m.recent[:10]
		}
		return m, waitForUpdate(m.updates, m.done)
	case fitOutcome:
		m.outcome = &msg
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	epochsPerSec := 0.0
	if duration.Seconds() >= 1 {
		epochsPerSec = float64(m.epoch) / duration.Seconds()
	}

	var sb strings.Builder
	sb.WriteString("Connect-4 policy training\n\n")
	fmt.Fprintf(&sb, "Samples:    %d train / %d test\n", m.trainSize, m.testSize)
	fmt.Fprintf(&sb, "Epoch:      %d/%d\n", m.epoch, m.epochs)
	fmt.Fprintf(&sb, "Train loss: %s\n", fmtLoss(m.trainLoss))
	fmt.Fprintf(&sb, "Test loss:  %s\n", fmtLoss(m.testLoss))
	fmt.Fprintf(&sb, "Elapsed:    %s (%.1f epochs/s)\n", duration.Round(time.Second), epochsPerSec)

	if len(m.recent) > 0 {
		sb.WriteString("\nRecent epochs:\n")
		for _, line := range m.recent {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("\nPress q to abort.\n")
	return sb.String()
}

func fmtLoss(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
