package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/pricefit/internal/dataset"
)

type estimateMsg struct {
	estimate Estimate
	err      error
}

func estimate(fn Estimator, mileage float64) tea.Cmd {
	return func() tea.Msg {
		e, err := fn(mileage)
		return estimateMsg{estimate: e, err: err}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case estimateMsg:
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.err = nil
		m.result = &msg.estimate
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending {
		if msg.Type == tea.KeyCtrlC {
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit

	case tea.KeyEnter:
		mileage, err := dataset.ParseMileage(string(m.input))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.pending = true
		return m, estimate(m.config.Estimate, mileage)

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
		m.err = nil
		return m, nil
	}

	return m, nil
}
