package tui

import "errors"

// ErrCanceled is returned by Run when the user leaves the prompt without
// submitting a mileage.
var ErrCanceled = errors.New("tui: prompt canceled")

// Estimate is the answer shown to the user.
type Estimate struct {
	Mileage float64 `json:"mileage"`
	Price   float64 `json:"price"`
	Theta0  float64 `json:"theta0"`
	Theta1  float64 `json:"theta1"`
}

// Estimator prices a mileage. It runs off the UI loop so it may block on
// the network.
type Estimator func(mileage float64) (Estimate, error)

// Config holds TUI configuration
type Config struct {
	Estimate Estimator
	// Source describes where estimates come from, e.g. the weights path
	// or the server URL.
	Source string
}

// Model is the prompt state.
type Model struct {
	config Config

	input    []rune
	err      error
	pending  bool
	result   *Estimate
	canceled bool
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	return Model{config: cfg}
}

// Result returns the estimate once the prompt is done.
func (m Model) Result() (Estimate, error) {
	switch {
	case m.result != nil:
		return *m.result, nil
	case m.err != nil && !m.canceled:
		return Estimate{}, m.err
	default:
		return Estimate{}, ErrCanceled
	}
}
