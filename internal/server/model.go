package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/haskel/pricefit/internal/regression"
	"github.com/haskel/pricefit/internal/storage"
	"github.com/haskel/pricefit/internal/trainer"
)

// ModelState is what the server currently predicts with.
type ModelState struct {
	Parameters regression.Parameters `json:"parameters"`
	// Trained is false when the weights file was missing or unreadable
	// and predictions fall back to zero parameters.
	Trained  bool             `json:"trained"`
	LoadedAt time.Time        `json:"loaded_at"`
	Weights  storage.FileInfo `json:"weights"`
	Report   *trainer.Report  `json:"report,omitempty"`
}

// Model holds the parameters served by the prediction endpoints and swaps
// them on reload.
type Model struct {
	mu      sync.RWMutex
	state   ModelState
	weights *storage.WeightsStore
	reports *storage.ReportStore
	logger  *slog.Logger
}

// NewModel creates a Model and loads the weights once.
func NewModel(weights *storage.WeightsStore, reports *storage.ReportStore, logger *slog.Logger) *Model {
	m := &Model{
		weights: weights,
		reports: reports,
		logger:  logger,
	}
	m.Reload()
	return m
}

// Reload re-reads the weights and the training report.
func (m *Model) Reload() ModelState {
	state := ModelState{
		LoadedAt: time.Now().UTC(),
		Weights:  m.weights.Info(),
	}

	params, err := m.weights.Read()
	if err != nil {
		m.logger.Warn("weights unavailable, predicting with zero parameters",
			"path", m.weights.Path(),
			"error", err,
		)
	} else {
		state.Parameters = params
		state.Trained = true
	}

	var report trainer.Report
	switch err := m.reports.Load(&report); {
	case err == nil:
		state.Report = &report
	case !errors.Is(err, storage.ErrNoReport):
		m.logger.Warn("failed to load training report", "path", m.reports.Path(), "error", err)
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.logger.Info("model loaded",
		"trained", state.Trained,
		"theta0", state.Parameters.Theta0,
		"theta1", state.Parameters.Theta1,
	)
	return state
}

// State returns the current state.
func (m *Model) State() ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Parameters returns the current parameters.
func (m *Model) Parameters() regression.Parameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Parameters
}
